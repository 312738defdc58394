package entity

import (
	"errors"
	"strings"
)

// ErrFenceNotFound в ответе модели нет блока ```csv.
var ErrFenceNotFound = errors.New("no ```csv block in response")

const (
	csvFence   = "```csv"
	closeFence = "```"
)

// CSVTable содержимое первого блока ```csv из ответа модели.
type CSVTable struct {
	Header string   // первая строка блока
	Rows   []string // остальные строки без завершающих пустых
}

// Body возвращает строки таблицы без заголовка, именно они пишутся в файл.
func (t CSVTable) Body() string {
	return strings.Join(t.Rows, "\n")
}

// ParseCSVFence находит первый блок ```csv и отделяет заголовок от строк.
// Если закрывающей ``` нет, блок длится до конца текста.
func ParseCSVFence(text string) (CSVTable, error) {
	start := strings.Index(text, csvFence)
	if start < 0 {
		return CSVTable{}, ErrFenceNotFound
	}

	block := text[start+len(csvFence):]
	if end := strings.Index(block, closeFence); end >= 0 {
		block = block[:end]
	}

	// Остаток строки с открывающим ```csv не относится к таблице.
	if nl := strings.Index(block, "\n"); nl >= 0 {
		block = block[nl+1:]
	} else {
		block = ""
	}

	block = strings.TrimRight(block, "\r\n")
	if block == "" {
		return CSVTable{}, nil
	}

	lines := strings.Split(block, "\n")
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}

	return CSVTable{Header: lines[0], Rows: lines[1:]}, nil
}
