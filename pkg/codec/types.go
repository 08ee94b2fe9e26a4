package codec

// Codec определяет тип A2DP энкодера, согласованный с удаленным устройством.
type Codec int

const (
	CodecNone Codec = iota
	CodecSBC
	CodecAPTX
	CodecAPTXHD
	CodecAAC
	CodecLDAC
)

func (c Codec) String() string {
	switch c {
	case CodecNone:
		return "none"
	case CodecSBC:
		return "sbc"
	case CodecAPTX:
		return "aptx"
	case CodecAPTXHD:
		return "aptxhd"
	case CodecAAC:
		return "aac"
	case CodecLDAC:
		return "ldac"
	default:
		return "invalid"
	}
}

// Params представляет набор согласованных параметров одного кодека.
// Tagged union над пятью вариантами: дискриминатор возвращает Codec().
// Набор валиден только на время одного вызова Encode; сессия копирует
// из результата только производные SampleRate/Channels/BitsPerSample.
type Params interface {
	Codec() Codec
}

// SBCParams содержит параметры SBC энкодера, полученные от Bluetooth стека.
type SBCParams struct {
	Subbands      uint32 // 4, 8
	BlockLength   uint32 // 4, 8, 12, 16
	SamplingRate  uint32 // 44100, 48000
	Channels      uint8  // 0 - Mono, 1 - Dual Mono, 2 - Stereo, 3 - Joint Stereo
	Alloc         bool   // метод аллокации бит: true - Loudness, false - SNR
	MinBitpool    uint8
	MaxBitpool    uint8
	Bitrate       uint32 // до 320 kbps mono, до 512 kbps stereo
	BitsPerSample uint32
}

func (SBCParams) Codec() Codec { return CodecSBC }

// APTXParams содержит параметры APTX энкодера.
//
// DualMono выбирает вариант записи: стандартный либо dual mono sync
// (введен с APTX V2). Флаг устанавливается сессией по собственному
// признаку поддержки, а не выводится из параметров. SyncMode
// используется только в dual mono варианте.
type APTXParams struct {
	SamplingRate  uint32
	Channels      uint8
	Bitrate       uint32
	BitsPerSample uint32
	DualMono      bool
	SyncMode      uint32 // 0 - stereo, 1 - dual mono, 2 - dual mono без sync
}

func (APTXParams) Codec() Codec { return CodecAPTX }

// APTXHDParams содержит параметры APTX HD энкодера. Единственный вариант.
type APTXHDParams struct {
	SamplingRate  uint32
	Channels      uint8
	Bitrate       uint32
	BitsPerSample uint32
}

func (APTXHDParams) Codec() Codec { return CodecAPTXHD }

// AACParams содержит параметры AAC энкодера.
type AACParams struct {
	EncMode       uint32 // 0 - LC, 1 - SBR, 2 - PS
	FormatFlag    uint16 // RAW, ADTS
	Channels      uint16 // 1 - Mono, 2 - Stereo
	SamplingRate  uint32
	Bitrate       uint32
	BitsPerSample uint32
}

func (AACParams) Codec() Codec { return CodecAAC }

// LDACParams содержит параметры LDAC энкодера.
type LDACParams struct {
	SamplingRate  uint32 // 44100, 48000, 88200, 96000
	Bitrate       uint32 // 303000, 606000, 909000 bps
	ChannelMode   uint16 // 0 - native, 4 - mono, 2 - dual, 1 - stereo
	MTU           uint16 // минимум 679 (2-DH5)
	BitsPerSample uint32 // 16, 24, 32
}

func (LDACParams) Codec() Codec { return CodecLDAC }

// Result содержит упакованную DSP запись и производные параметры,
// которые сессия запоминает после успешной конфигурации энкодера.
type Result struct {
	Codec Codec
	// Blob - готовая к записи в mixer control DSP запись
	Blob []byte
	// SampleRate - исходная частота дискретизации источника.
	// Удвоение для LDAC применяется только при выборе частоты бэкенда.
	SampleRate uint32
	// Channels - число каналов, сконфигурированных на DSP (1 или 2)
	Channels uint32
	// BitsPerSample - разрядность для настройки входного бит-формата AFE
	BitsPerSample uint32
}
