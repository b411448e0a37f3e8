package port

import "linewatch/internal/domain/entity"

// ImageSource интерфейс источника кадров (камера, файл, генератор).
// Open вызывается до первого Read; ошибки Read не фатальны и означают
// «кадра нет в этом цикле». Реализация не обязана быть потокобезопасной:
// источником владеет ровно одна станция.
type ImageSource interface {
	// Open открывает источник
	Open() error

	// Read возвращает следующий кадр
	Read() (*entity.Image, error)

	// Close освобождает ресурсы источника
	Close()
}
