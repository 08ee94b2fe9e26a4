package a2dp

import (
	"github.com/arzzra/a2dp_offload/pkg/codec"
)

// Проверка на соответствие интерфейсу во время компиляции
var _ Session = (*session)(nil)

// State представляет текущее состояние A2DP сессии.
type State int

const (
	StateDisconnected State = iota
	StateConnected
	StateStarted
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnected:
		return "connected"
	case StateStarted:
		return "started"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// DeviceType - битовая маска типа выходного аудио устройства.
type DeviceType uint32

// Выходные A2DP устройства.
const (
	DeviceOutBluetoothA2DP           DeviceType = 0x80
	DeviceOutBluetoothA2DPHeadphones DeviceType = 0x100
	DeviceOutBluetoothA2DPSpeaker    DeviceType = 0x200
)

// DeviceOutAllA2DP - маска всех выходных A2DP устройств.
const DeviceOutAllA2DP = DeviceOutBluetoothA2DP |
	DeviceOutBluetoothA2DPHeadphones |
	DeviceOutBluetoothA2DPSpeaker

// IsA2DPOutDevice сообщает, относится ли устройство к классу A2DP.
func IsA2DPOutDevice(d DeviceType) bool {
	return d&DeviceOutAllA2DP != 0
}

// UsecaseType определяет тип активного сценария аудио маршрутизации.
type UsecaseType int

const (
	UsecasePCMPlayback UsecaseType = iota
	UsecasePCMCapture
	UsecaseVoiceCall
)

// Usecase - активный сценарий маршрутизации, отслеживаемый менеджером
// устройств.
type Usecase struct {
	ID      string
	Type    UsecaseType
	Devices DeviceType
}

// DeviceManager - потребляемый интерфейс менеджера аудио устройств.
//
// RestoreUsecase вызывается координатором suspend/resume с временно
// отпущенной блокировкой устройства (см. Config.DeviceLock): менеджер
// может реентерабельно обращаться к аудио маршрутизации.
type DeviceManager interface {
	// Usecases возвращает активные сценарии маршрутизации
	Usecases() []Usecase
	// RestoreUsecase переводит сценарий с A2DP пути (restoring=false,
	// пауза) либо обратно на него (restoring=true)
	RestoreUsecase(uc Usecase, restoring bool) error
}

// Session - интерфейс A2DP offload сессии.
//
// Все операции должны вызываться под блокировкой уровня аудио
// устройства (см. документацию пакета).
type Session interface {
	// Connect открывает A2DP путь: привязывает IPC сервис и вызывает
	// открытие потока. Допустим только из состояния Disconnected.
	Connect() error

	// Disconnect закрывает A2DP путь и сбрасывает состояние сессии к
	// базовому. Отказы коллабораторов логируются и не фатальны.
	Disconnect() error

	// StartPlayback запускает воспроизведение: при первом старте
	// выполняет IPC start и конфигурацию DSP энкодера, затем
	// инкрементирует счетчик активных сессий и применяет конфигурацию
	// скремблера и бэкенда.
	StartPlayback() error

	// StopPlayback декрементирует счетчик активных сессий; при
	// достижении нуля останавливает аппаратный поток и сбрасывает
	// конфигурацию энкодера и бэкенда. Best-effort.
	StopPlayback() error

	// SetParameters обрабатывает события вида ключ/значение:
	// подключение/отключение устройства и смену состояния suspend.
	SetParameters(params map[string]string)

	// SetHandoffMode включает/выключает режим смены устройства
	SetHandoffMode(on bool)

	// IsForceDeviceSwitch сообщает, требуется ли принудительное
	// переключение пути: идет handoff либо путь не стартовал.
	IsForceDeviceSwitch() bool

	// SampleRate возвращает согласованную частоту дискретизации
	SampleRate() uint32

	// IsReady сообщает готовность A2DP к воспроизведению
	IsReady() bool

	// IsSuspended сообщает, приостановлена ли сессия
	IsSuspended() bool

	// State возвращает текущее состояние жизненного цикла
	State() State

	// ActiveSessions возвращает счетчик активных сессий
	ActiveSessions() int

	// ActiveCodec возвращает сконфигурированный кодек энкодера
	ActiveCodec() codec.Codec

	// EncoderLatency возвращает оценку задержки активного энкодера в
	// миллисекундах с учетом внешнего переопределения
	EncoderLatency() uint32
}
