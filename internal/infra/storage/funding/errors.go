package funding

import "errors"

var (
	// ErrCounterNotFound возвращается, когда счётчик сборов не найден
	ErrCounterNotFound = errors.New("funding.repository: counter not found")

	// ErrDuplicateEvent возвращается, когда уведомление провайдера уже было применено
	ErrDuplicateEvent = errors.New("funding.repository: duplicate provider event")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("funding.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("funding.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("funding.repository: failed to scan row")
)
