package codec

import (
	"encoding/binary"
	"fmt"
)

// Теги медиа форматов DSP энкодера. Значения контрактные с firmware.
const (
	MediaFmtSBC    uint32 = 0x00010BF2
	MediaFmtAAC    uint32 = 0x00010DA6
	MediaFmtAPTX   uint32 = 0x000131FF
	MediaFmtAPTXHD uint32 = 0x00013200
	MediaFmtLDAC   uint32 = 0x00013224
	MediaFmtNone   uint32 = 0
)

// Режимы каналов SBC в терминах DSP.
const (
	SBCChannelModeMono        uint32 = 1
	SBCChannelModeStereo      uint32 = 2
	SBCChannelModeDualMono    uint32 = 8
	SBCChannelModeJointStereo uint32 = 9
)

// Методы аллокации бит SBC.
const (
	SBCAllocLoudness uint32 = 0
	SBCAllocSNR      uint32 = 1
)

// Audio Object Type для AAC.
const (
	AACModeLC  uint32 = 2
	AACModeSBR uint32 = 5
	AACModePS  uint32 = 29
)

// Раскладка PCM каналов в channel_mapping custom-записей.
const (
	PCMChannelL uint8 = 1
	PCMChannelR uint8 = 2
	PCMChannelC uint8 = 3
)

// Размеры сериализованных DSP записей в байтах.
const (
	SBCRecordSize    = 28 // fmt + subbands + blk_len + channel_mode + alloc + bit_rate + sample_rate
	AACRecordSize    = 20 // fmt + bit_rate + enc_mode + fmt_flag + channel_cfg + sample_rate
	customRecordSize = 24 // fmt + sample_rate + num_channels + reserved + channel_mapping[8] + custom_size
	APTXRecordSize   = customRecordSize + 4 // + sync_mode
	LDACRecordSize   = customRecordSize + 8 // + bit_rate + channel_mode + mtu
)

// recordWriter последовательно упаковывает поля записи в little-endian,
// без неявного выравнивания.
type recordWriter struct {
	buf []byte
}

func newRecordWriter(size int) *recordWriter {
	return &recordWriter{buf: make([]byte, 0, size)}
}

func (w *recordWriter) putU32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *recordWriter) putU16(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

func (w *recordWriter) putBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// Encode упаковывает параметры кодека в DSP запись фиксированной раскладки.
// Возвращает запись и производные параметры сессии. Ошибка возвращается
// для nil params и неподдерживаемого типа кодека; сами значения полей не
// валидируются - за их корректность отвечает Bluetooth стек.
func Encode(params Params) (*Result, error) {
	if params == nil {
		return nil, fmt.Errorf("codec: nil params")
	}

	switch p := params.(type) {
	case SBCParams:
		return encodeSBC(p), nil
	case *SBCParams:
		if p == nil {
			return nil, fmt.Errorf("codec: nil SBC params")
		}
		return encodeSBC(*p), nil
	case APTXParams:
		return encodeAPTX(p), nil
	case *APTXParams:
		if p == nil {
			return nil, fmt.Errorf("codec: nil APTX params")
		}
		return encodeAPTX(*p), nil
	case APTXHDParams:
		return encodeAPTXHD(p), nil
	case *APTXHDParams:
		if p == nil {
			return nil, fmt.Errorf("codec: nil APTX HD params")
		}
		return encodeAPTXHD(*p), nil
	case AACParams:
		return encodeAAC(p), nil
	case *AACParams:
		if p == nil {
			return nil, fmt.Errorf("codec: nil AAC params")
		}
		return encodeAAC(*p), nil
	case LDACParams:
		return encodeLDAC(p), nil
	case *LDACParams:
		if p == nil {
			return nil, fmt.Errorf("codec: nil LDAC params")
		}
		return encodeLDAC(*p), nil
	default:
		return nil, fmt.Errorf("codec: unsupported codec type %s", params.Codec())
	}
}

func encodeSBC(p SBCParams) *Result {
	var channelMode uint32
	switch p.Channels {
	case 0:
		channelMode = SBCChannelModeMono
	case 1:
		channelMode = SBCChannelModeDualMono
	case 3:
		channelMode = SBCChannelModeJointStereo
	case 2:
		channelMode = SBCChannelModeStereo
	default:
		channelMode = SBCChannelModeStereo
	}

	// Маппинг флага аллокации сохранен из контракта с DSP:
	// true кодируется как Loudness, false как SNR.
	allocMethod := SBCAllocSNR
	if p.Alloc {
		allocMethod = SBCAllocLoudness
	}

	w := newRecordWriter(SBCRecordSize)
	w.putU32(MediaFmtSBC)
	w.putU32(p.Subbands)
	w.putU32(p.BlockLength)
	w.putU32(channelMode)
	w.putU32(allocMethod)
	w.putU32(p.Bitrate)
	w.putU32(p.SamplingRate)

	channels := uint32(2)
	if channelMode == SBCChannelModeMono {
		channels = 1
	}

	return &Result{
		Codec:         CodecSBC,
		Blob:          w.buf,
		SampleRate:    p.SamplingRate,
		Channels:      channels,
		BitsPerSample: p.BitsPerSample,
	}
}

// encodeCustom упаковывает общую custom-часть записей APTX/APTX-HD/LDAC.
// customSize заполняется только для LDAC, для остальных остается нулевым.
func encodeCustom(w *recordWriter, fmtTag, sampleRate uint32, numChannels uint16, customSize uint32) {
	var mapping [8]uint8
	switch numChannels {
	case 1:
		mapping[0] = PCMChannelC
	default:
		mapping[0] = PCMChannelL
		mapping[1] = PCMChannelR
	}

	w.putU32(fmtTag)
	w.putU32(sampleRate)
	w.putU16(numChannels)
	w.putU16(0) // reserved
	w.putBytes(mapping[:])
	w.putU32(customSize)
}

func encodeAPTX(p APTXParams) *Result {
	syncMode := uint32(0)
	if p.DualMono {
		syncMode = p.SyncMode
	}

	w := newRecordWriter(APTXRecordSize)
	encodeCustom(w, MediaFmtAPTX, p.SamplingRate, uint16(p.Channels), 0)
	w.putU32(syncMode)

	channels := uint32(2)
	if p.Channels == 1 {
		channels = 1
	}

	return &Result{
		Codec:         CodecAPTX,
		Blob:          w.buf,
		SampleRate:    p.SamplingRate,
		Channels:      channels,
		BitsPerSample: p.BitsPerSample,
	}
}

func encodeAPTXHD(p APTXHDParams) *Result {
	w := newRecordWriter(customRecordSize)
	encodeCustom(w, MediaFmtAPTXHD, p.SamplingRate, uint16(p.Channels), 0)

	channels := uint32(2)
	if p.Channels == 1 {
		channels = 1
	}

	return &Result{
		Codec:         CodecAPTXHD,
		Blob:          w.buf,
		SampleRate:    p.SamplingRate,
		Channels:      channels,
		BitsPerSample: p.BitsPerSample,
	}
}

func encodeAAC(p AACParams) *Result {
	var encMode uint32
	switch p.EncMode {
	case 0:
		encMode = AACModeLC
	case 2:
		encMode = AACModePS
	default:
		// включая канонический режим 1
		encMode = AACModeSBR
	}

	w := newRecordWriter(AACRecordSize)
	w.putU32(MediaFmtAAC)
	w.putU32(p.Bitrate)
	w.putU32(encMode)
	w.putU16(p.FormatFlag)
	w.putU16(p.Channels)
	w.putU32(p.SamplingRate)

	return &Result{
		Codec:         CodecAAC,
		Blob:          w.buf,
		SampleRate:    p.SamplingRate,
		Channels:      uint32(p.Channels),
		BitsPerSample: p.BitsPerSample,
	}
}

func encodeLDAC(p LDACParams) *Result {
	var numChannels uint16
	switch p.ChannelMode {
	case 4:
		numChannels = 1
	case 2, 1:
		numChannels = 2
	default:
		numChannels = 2
	}

	w := newRecordWriter(LDACRecordSize)
	encodeCustom(w, MediaFmtLDAC, p.SamplingRate, numChannels, LDACRecordSize)
	w.putU32(p.Bitrate)
	w.putU16(p.ChannelMode)
	w.putU16(p.MTU)

	return &Result{
		Codec:         CodecLDAC,
		Blob:          w.buf,
		SampleRate:    p.SamplingRate,
		Channels:      uint32(numChannels),
		BitsPerSample: p.BitsPerSample,
	}
}

// ResetBlob возвращает инертную DSP запись "нет формата": обнуленную
// запись размера SBC. Используется при остановке сессии и разрыве
// соединения для сброса конфигурации энкодера.
func ResetBlob() []byte {
	return make([]byte, SBCRecordSize)
}
