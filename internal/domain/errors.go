package domain

import "errors"

// Единая таксономия ошибок ядра. Репозитории переводят ошибки хранилища в
// эти значения, обработчики отображают их в HTTP-статусы.
var (
	// ErrNotFound — запрошенный объект отсутствует или мягко удален.
	ErrNotFound = errors.New("объект не найден")

	// ErrSlotConflict — слот занят конкурирующей записью; ожидаемый исход
	// гонки бронирования, клиенту следует перечитать слоты и выбрать заново.
	ErrSlotConflict = errors.New("выбранный слот уже занят")

	// ErrStoreUnavailable — временный сбой хранилища; повтор — на стороне
	// вызывающего, ядро повторов не делает.
	ErrStoreUnavailable = errors.New("хранилище недоступно")

	// ErrChatUnavailable — у профессионала нет активной подписки, чат закрыт.
	ErrChatUnavailable = errors.New("чат недоступен без активной подписки")

	// ErrAccessDenied — объект принадлежит другому пользователю.
	ErrAccessDenied = errors.New("доступ запрещен")
)
