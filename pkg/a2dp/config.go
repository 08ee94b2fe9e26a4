package a2dp

import (
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/arzzra/a2dp_offload/pkg/btipc"
	"github.com/arzzra/a2dp_offload/pkg/mixer"
)

// Ключи параметров, принимаемых SetParameters.
const (
	// ParamDeviceConnect - подключение устройства; значение - числовой
	// код устройства (DeviceType)
	ParamDeviceConnect = "connect"
	// ParamDeviceDisconnect - отключение устройства
	ParamDeviceDisconnect = "disconnect"
	// ParamSuspended - смена состояния suspend; значение "true"/"false"
	ParamSuspended = "A2dpSuspended"
)

// Системные свойства, которые читает сессия.
const (
	// PropOffloadEnabled включает поддержку A2DP offload
	PropOffloadEnabled = "persist.vendor.bluetooth.a2dp_offload.enable"
	// PropCodecLatencies - переопределение задержек энкодеров в виде
	// пяти целых через "/" в порядке {SBC, APTX, APTX-HD, AAC, LDAC}
	PropCodecLatencies = "vendor.audio.a2dp.codec.latency"
)

// PropertyFunc возвращает значение системного свойства по ключу,
// пустая строка - свойство не установлено.
type PropertyFunc func(key string) string

// envProperty - PropertyFunc по умолчанию: ключ свойства преобразуется
// в имя переменной окружения (точки в подчеркивания, верхний регистр).
func envProperty(key string) string {
	name := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	return os.Getenv(name)
}

// Config содержит параметры конфигурации A2DP сессии.
// Обязательны только Mixer и Loader.
type Config struct {
	// Mixer - реестр mixer controls аудио подсистемы
	Mixer mixer.Registry

	// Loader выполняет привязку radio IPC сервиса при Connect
	Loader btipc.Loader

	// DeviceManager - менеджер use-case'ов; nil отключает
	// паузу/восстановление при suspend/resume
	DeviceManager DeviceManager

	// DeviceLock - блокировка уровня аудио устройства, которую держат
	// вызывающие стороны. Координатор suspend/resume отпускает и
	// захватывает ее заново вокруг вызовов DeviceManager.RestoreUsecase.
	DeviceLock *sync.Mutex

	// Property - источник системных свойств (по умолчанию переменные
	// окружения)
	Property PropertyFunc

	// Logger для структурированного логирования (по умолчанию
	// slog.Default())
	Logger *slog.Logger

	// Metrics - опциональный сборщик метрик
	Metrics *MetricsCollector

	// APTXDualMono включает dual mono sync вариант APTX энкодера
	APTXDualMono bool
}

// DefaultConfig возвращает конфигурацию по умолчанию со стаб-реестром
// mixer controls. Loader должен быть установлен вызывающей стороной.
func DefaultConfig() Config {
	return Config{
		Mixer:    mixer.NewStubRegistry(),
		Property: envProperty,
		Logger:   slog.Default(),
	}
}
