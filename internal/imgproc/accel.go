package imgproc

import "linewatch/internal/domain/entity"

// Accelerator — контракт нативного ускоряющего бэкенда для горячих операций
// конвейера. Стадии пробуют ускоритель первым и при ошибке откатываются на
// чистые реализации этого пакета, поэтому бэкенд обязан давать семантически
// эквивалентный результат, но не обязан поддерживать все операции.
type Accelerator interface {
	Name() string
	Grayscale(img *entity.Image) (*entity.Image, error)
	GaussianBlur(img *entity.Image, ksize int, sigma float64) (*entity.Image, error)
	Threshold(img *entity.Image, thresh float64, maxval byte, mode ThresholdMode) (*entity.Image, error)
	AdaptiveThreshold(img *entity.Image, maxval byte, method AdaptiveMethod, inverse bool, blockSize int, c float64) (*entity.Image, error)
	Morphology(img *entity.Image, op MorphOp, shape KernelShape, ksize, iterations int) (*entity.Image, error)
}
