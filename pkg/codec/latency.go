package codec

import "fmt"

// Задержки энкодеров по кодекам, миллисекунды.
const (
	encoderLatencySBC    = 10
	encoderLatencyAPTX   = 40
	encoderLatencyAPTXHD = 20
	encoderLatencyAAC    = 70
	encoderLatencyLDAC   = 40
)

// Задержки A2DP приемника по умолчанию, миллисекунды.
const (
	sinkLatencySBC    = 140
	sinkLatencyAPTX   = 160
	sinkLatencyAPTXHD = 180
	sinkLatencyAAC    = 180
	sinkLatencyLDAC   = 180
)

// DefaultLatency - оценка задержки, когда энкодер не сконфигурирован.
const DefaultLatency uint32 = 200

// LatencyOverride содержит внешние смещения задержек энкодеров в порядке
// кодеков {SBC, APTX, APTX-HD, AAC, LDAC}.
type LatencyOverride struct {
	SBC    int
	APTX   int
	APTXHD int
	AAC    int
	LDAC   int
}

// ParseLatencyOverride разбирает строку переопределения задержек вида
// "10/40/20/70/40". Возвращает false, если строка пуста или не содержит
// ровно пять целых значений.
func ParseLatencyOverride(value string) (LatencyOverride, bool) {
	var o LatencyOverride
	if value == "" {
		return o, false
	}
	n, err := fmt.Sscanf(value, "%d/%d/%d/%d/%d",
		&o.SBC, &o.APTX, &o.APTXHD, &o.AAC, &o.LDAC)
	if err != nil || n != 5 {
		return LatencyOverride{}, false
	}
	return o, true
}

// Latency возвращает оценку задержки энкодера для активного кодека:
// смещение энкодера (встроенное либо из override) плюс задержка приемника.
// Для неактивного или неизвестного кодека возвращается DefaultLatency.
func Latency(c Codec, override *LatencyOverride) uint32 {
	switch c {
	case CodecSBC:
		enc := encoderLatencySBC
		if override != nil {
			enc = override.SBC
		}
		return uint32(enc + sinkLatencySBC)
	case CodecAPTX:
		enc := encoderLatencyAPTX
		if override != nil {
			enc = override.APTX
		}
		return uint32(enc + sinkLatencyAPTX)
	case CodecAPTXHD:
		enc := encoderLatencyAPTXHD
		if override != nil {
			enc = override.APTXHD
		}
		return uint32(enc + sinkLatencyAPTXHD)
	case CodecAAC:
		enc := encoderLatencyAAC
		if override != nil {
			enc = override.AAC
		}
		return uint32(enc + sinkLatencyAAC)
	case CodecLDAC:
		enc := encoderLatencyLDAC
		if override != nil {
			enc = override.LDAC
		}
		return uint32(enc + sinkLatencyLDAC)
	default:
		return DefaultLatency
	}
}
