package port

import "linewatch/internal/domain/entity"

// RejectionHandler — внешний обработчик отбраковки. Вызывается станцией,
// когда инспекция нашла дефекты; не должен блокировать надолго, его ошибки
// логируются и никогда не валят цикл станции.
type RejectionHandler interface {
	Reject(result *entity.InspectionResult) error
}

// RejectFunc адаптирует функцию к интерфейсу RejectionHandler.
type RejectFunc func(result *entity.InspectionResult) error

func (f RejectFunc) Reject(result *entity.InspectionResult) error {
	return f(result)
}
