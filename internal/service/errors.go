package service

import "errors"

// Ошибки сервисного слоя.
var (
	// Событие или файл не найден
	ErrNotFound = errors.New("запись не найдена")
	// Статус не входит в перечень допустимых
	ErrInvalidStatus = errors.New("недопустимый статус события")
	// Неизвестное значение фильтра when
	ErrInvalidBucket = errors.New("недопустимое значение when")
)
