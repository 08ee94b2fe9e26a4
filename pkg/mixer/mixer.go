// Package mixer определяет интерфейс реестра mixer controls аудио
// подсистемы, через который A2DP сессия записывает конфигурацию DSP
// энкодера и настройки бэкенда.
//
// Реестр принадлежит внешней аудио подсистеме (HAL): пакет описывает
// только потребляемый контракт - поиск контрола по имени и два вида
// записи (байтовый блок и перечислимое строковое значение). Поиск может
// завершиться неудачей, если контрол отсутствует в текущем профиле
// железа; это признак рассогласования профиля, а не временная ошибка.
//
// Для тестов и демонстраций пакет содержит in-memory реализацию
// StubRegistry, фиксирующую все записи.
package mixer

import (
	"errors"
	"fmt"
	"sync"
)

// Имена mixer controls, используемые A2DP offload путем.
const (
	ControlEncConfigBlock = "SLIM_7_RX Encoder Config"
	ControlEncBitFormat   = "AFE Input Bit Format"
	ControlScramblerMode  = "AFE Scrambler Mode"
	ControlSampleRate     = "BT SampleRate"
	ControlInChannels     = "AFE Input Channels"
)

// Перечислимые значения частоты дискретизации бэкенда.
const (
	RateKHZ8    = "KHZ_8"
	RateKHZ44P1 = "KHZ_44P1"
	RateKHZ48   = "KHZ_48"
	RateKHZ88P2 = "KHZ_88P2"
	RateKHZ96   = "KHZ_96"
)

// Перечислимые значения числа входных каналов AFE.
const (
	ChannelsZero = "Zero"
	ChannelsOne  = "One"
	ChannelsTwo  = "Two"
)

// Перечислимые значения входного бит-формата AFE.
const (
	FormatS16LE = "S16_LE"
	FormatS24LE = "S24_LE"
	FormatS32LE = "S32_LE"
)

// ErrControlNotFound возвращается реестром, когда контрол с запрошенным
// именем отсутствует в текущем профиле железа.
var ErrControlNotFound = errors.New("mixer: control not found")

// Control представляет именованную точку конфигурации аудио подсистемы.
// Обе операции записи независимо могут завершиться отказом железа.
type Control interface {
	// Name возвращает имя контрола
	Name() string
	// SetBytes записывает бинарный блок конфигурации
	SetBytes(data []byte) error
	// SetEnum записывает одно из фиксированного набора строковых значений
	SetEnum(value string) error
	// SetBool записывает булево значение (например, включение scrambler)
	SetBool(value bool) error
}

// Registry предоставляет поиск контролов по имени.
type Registry interface {
	// ControlByName возвращает контрол либо ErrControlNotFound
	ControlByName(name string) (Control, error)
}

// StubRegistry - in-memory реализация Registry для тестов и демо.
// Фиксирует последнюю запись каждого вида по каждому контролу.
// Thread-safe.
type StubRegistry struct {
	mu sync.Mutex
	// missing перечисляет имена контролов, отсутствующие в "профиле"
	missing map[string]bool
	// failWrites заставляет записи в контрол возвращать ошибку
	failWrites map[string]bool

	bytesWrites map[string][][]byte
	enumWrites  map[string][]string
	boolWrites  map[string][]bool
}

// NewStubRegistry создает пустой стаб-реестр, в котором присутствуют
// все контролы.
func NewStubRegistry() *StubRegistry {
	return &StubRegistry{
		missing:     make(map[string]bool),
		failWrites:  make(map[string]bool),
		bytesWrites: make(map[string][][]byte),
		enumWrites:  make(map[string][]string),
		boolWrites:  make(map[string][]bool),
	}
}

// RemoveControl помечает контрол отсутствующим в профиле.
func (r *StubRegistry) RemoveControl(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.missing[name] = true
}

// FailWrites заставляет все записи в контрол возвращать ошибку.
func (r *StubRegistry) FailWrites(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failWrites[name] = true
}

// ControlByName реализует Registry.
func (r *StubRegistry) ControlByName(name string) (Control, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.missing[name] {
		return nil, fmt.Errorf("%w: %s", ErrControlNotFound, name)
	}
	return &stubControl{registry: r, name: name}, nil
}

// BytesWrites возвращает все байтовые записи в контрол в порядке выполнения.
func (r *StubRegistry) BytesWrites(name string) [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]byte(nil), r.bytesWrites[name]...)
}

// EnumWrites возвращает все строковые записи в контрол в порядке выполнения.
func (r *StubRegistry) EnumWrites(name string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.enumWrites[name]...)
}

// BoolWrites возвращает все булевы записи в контрол в порядке выполнения.
func (r *StubRegistry) BoolWrites(name string) []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bool(nil), r.boolWrites[name]...)
}

// LastBytes возвращает последний записанный байтовый блок либо nil.
func (r *StubRegistry) LastBytes(name string) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	writes := r.bytesWrites[name]
	if len(writes) == 0 {
		return nil
	}
	return append([]byte(nil), writes[len(writes)-1]...)
}

// LastEnum возвращает последнее записанное строковое значение либо "".
func (r *StubRegistry) LastEnum(name string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	writes := r.enumWrites[name]
	if len(writes) == 0 {
		return ""
	}
	return writes[len(writes)-1]
}

type stubControl struct {
	registry *StubRegistry
	name     string
}

func (c *stubControl) Name() string { return c.name }

func (c *stubControl) SetBytes(data []byte) error {
	c.registry.mu.Lock()
	defer c.registry.mu.Unlock()
	if c.registry.failWrites[c.name] {
		return fmt.Errorf("mixer: write to %q rejected", c.name)
	}
	c.registry.bytesWrites[c.name] = append(c.registry.bytesWrites[c.name], append([]byte(nil), data...))
	return nil
}

func (c *stubControl) SetEnum(value string) error {
	c.registry.mu.Lock()
	defer c.registry.mu.Unlock()
	if c.registry.failWrites[c.name] {
		return fmt.Errorf("mixer: write to %q rejected", c.name)
	}
	c.registry.enumWrites[c.name] = append(c.registry.enumWrites[c.name], value)
	return nil
}

func (c *stubControl) SetBool(value bool) error {
	c.registry.mu.Lock()
	defer c.registry.mu.Unlock()
	if c.registry.failWrites[c.name] {
		return fmt.Errorf("mixer: write to %q rejected", c.name)
	}
	c.registry.boolWrites[c.name] = append(c.registry.boolWrites[c.name], value)
	return nil
}
