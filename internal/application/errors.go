package app

import (
	"errors"
	"fmt"
)

// FormatError превращает ошибку в текст результата: сообщение и тип исходной ошибки.
func FormatError(err error) string {
	root := err
	for {
		next := errors.Unwrap(root)
		if next == nil {
			break
		}
		root = next
	}
	return fmt.Sprintf("Error processing image: %v\nType: %T", err, root)
}
