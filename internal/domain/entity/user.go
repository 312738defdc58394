package entity

// UserState состояние пользователя в диалоге
type UserState string

const (
	StateMainMenu              UserState = "main_menu"               // В главном меню
	StateAwaitingMarkdownPhoto UserState = "awaiting_markdown_photo" // Ждём картинку для markdown
	StateAwaitingCSVPhoto      UserState = "awaiting_csv_photo"      // Ждём картинку с таблицей
	StateAwaitingDetectPhoto   UserState = "awaiting_detect_photo"   // Ждём кадр для поиска рамок
	StateAwaitingSegmentPhoto  UserState = "awaiting_segment_photo"  // Ждём кадр для сегментации
	StateProcessing            UserState = "processing"              // Обработка изображения
)

// User представляет пользователя бота
type User struct {
	ID     int64     // Telegram User ID
	ChatID int64     // Telegram Chat ID
	State  UserState // Текущее состояние пользователя
}

// NewUser создаёт нового пользователя с начальным состоянием
func NewUser(userID, chatID int64) *User {
	return &User{
		ID:     userID,
		ChatID: chatID,
		State:  StateMainMenu,
	}
}

// SetState обновляет состояние пользователя
func (u *User) SetState(state UserState) {
	u.State = state
}

// AwaitsPhoto сообщает, ждёт ли бот от пользователя картинку.
func (u *User) AwaitsPhoto() bool {
	switch u.State {
	case StateAwaitingMarkdownPhoto, StateAwaitingCSVPhoto, StateAwaitingDetectPhoto, StateAwaitingSegmentPhoto:
		return true
	}
	return false
}
