package domain

import "errors"

var (
	// ErrInvalidConfiguration пустая или битая таблица погоды. Ошибка вызывающего, не ретраится.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrInvalidSeed сид нельзя свернуть в число. Вызывающий откатывается на 0.
	ErrInvalidSeed = errors.New("invalid seed")
	// ErrInvalidInput отрицательное время, неизвестный биом и т.п.
	ErrInvalidInput = errors.New("invalid input")
)
