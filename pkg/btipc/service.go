// Package btipc определяет контракт Bluetooth radio IPC сервиса -
// набора операций управления физическим A2DP путем, которым владеет
// внешний Bluetooth стек.
//
// В исходной системе операции разрешались динамически (dlopen/dlsym),
// поэтому каждая операция таблицы опциональна: отсутствие привязки -
// валидное состояние, которое вызывающая сторона обязана проверять
// перед вызовом. Пакет моделирует это типизированной таблицей
// nullable-операций, которую возвращает Loader.
//
// Все операции синхронные и блокирующие; механизм отмены или таймаута
// в контракте отсутствует, зависший вызов блокирует всю машину
// состояний сессии. Это известный риск живости исходного контракта,
// сознательно не "исправленный" на этом уровне.
package btipc

import (
	"errors"

	"github.com/arzzra/a2dp_offload/pkg/codec"
)

// ErrLoadFailed возвращается загрузчиком при неудаче динамической
// привязки IPC сервиса.
var ErrLoadFailed = errors.New("btipc: service load failed")

// CodecConfig - результат запроса согласованной конфигурации кодека
// у Bluetooth стека.
type CodecConfig struct {
	// Params - согласованные параметры кодека (tagged union)
	Params codec.Params
	// Multicast - признак мультикаст-доставки на несколько устройств
	Multicast bool
	// DeviceCount - число подключенных устройств-приемников
	DeviceCount uint8
}

// Service - типизированная таблица операций radio IPC сервиса.
// Любое поле может быть nil: операция не привязана. Сессия владеет
// хэндлом эксклюзивно и освобождает его при неудаче открытия пути.
type Service struct {
	// StreamOpen открывает A2DP аудио путь. Ненулевой код - отказ.
	StreamOpen func() int
	// StreamClose закрывает A2DP аудио путь
	StreamClose func() bool
	// StreamStart запускает аудио datapath. Ненулевой код - отказ.
	StreamStart func() int
	// StreamStop останавливает аудио datapath
	StreamStop func() int
	// StreamSuspend приостанавливает аудио datapath
	StreamSuspend func() int
	// HandoffTriggered уведомляет стек о начале смены устройства
	HandoffTriggered func()
	// ClearSuspendFlag сбрасывает флаг suspend на стороне стека
	ClearSuspendFlag func()
	// GetCodecConfig возвращает согласованную конфигурацию кодека
	GetCodecConfig func() (*CodecConfig, error)
	// CheckReady сообщает готовность A2DP к воспроизведению
	CheckReady func() bool
	// ScramblingEnabled сообщает требование скремблирования на BT SoC
	ScramblingEnabled func() bool
}

// Loader выполняет динамическую привязку radio IPC сервиса.
// Возвращает таблицу операций либо ошибку загрузки (ErrLoadFailed).
// Повторный Load после освобождения хэндла допустим.
type Loader interface {
	Load() (*Service, error)
}

// LoaderFunc адаптирует функцию к интерфейсу Loader.
type LoaderFunc func() (*Service, error)

func (f LoaderFunc) Load() (*Service, error) { return f() }
