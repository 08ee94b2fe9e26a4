package codec

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// === ТЕСТЫ СЕРИАЛИЗАЦИИ DSP ЗАПИСЕЙ ===

// TestEncodeFormatTagAndSize проверяет для всех кодеков, что тег формата
// в заголовке записи соответствует запрошенному кодеку, а длина записи -
// заявленному размеру варианта
func TestEncodeFormatTagAndSize(t *testing.T) {
	tests := []struct {
		name     string
		params   Params
		codec    Codec
		fmtTag   uint32
		byteSize int
	}{
		{
			name:     "SBC",
			params:   SBCParams{Subbands: 8, BlockLength: 16, SamplingRate: 48000, Channels: 2, Bitrate: 328000, BitsPerSample: 16},
			codec:    CodecSBC,
			fmtTag:   MediaFmtSBC,
			byteSize: SBCRecordSize,
		},
		{
			name:     "APTX",
			params:   APTXParams{SamplingRate: 48000, Channels: 2, Bitrate: 352000, BitsPerSample: 16},
			codec:    CodecAPTX,
			fmtTag:   MediaFmtAPTX,
			byteSize: APTXRecordSize,
		},
		{
			name:     "APTX HD",
			params:   APTXHDParams{SamplingRate: 48000, Channels: 2, Bitrate: 576000, BitsPerSample: 24},
			codec:    CodecAPTXHD,
			fmtTag:   MediaFmtAPTXHD,
			byteSize: customRecordSize,
		},
		{
			name:     "AAC",
			params:   AACParams{EncMode: 0, Channels: 2, SamplingRate: 44100, Bitrate: 320000, BitsPerSample: 16},
			codec:    CodecAAC,
			fmtTag:   MediaFmtAAC,
			byteSize: AACRecordSize,
		},
		{
			name:     "LDAC",
			params:   LDACParams{SamplingRate: 96000, Bitrate: 990000, ChannelMode: 1, MTU: 679, BitsPerSample: 32},
			codec:    CodecLDAC,
			fmtTag:   MediaFmtLDAC,
			byteSize: LDACRecordSize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Encode(tt.params)
			require.NoError(t, err)
			require.NotNil(t, result)

			assert.Equal(t, tt.codec, result.Codec)
			assert.Len(t, result.Blob, tt.byteSize)
			assert.Equal(t, tt.fmtTag, binary.LittleEndian.Uint32(result.Blob[0:4]),
				"тег формата в заголовке")
		})
	}
}

// TestEncodeNilParams проверяет отклонение пустого набора параметров
func TestEncodeNilParams(t *testing.T) {
	result, err := Encode(nil)
	require.Error(t, err)
	assert.Nil(t, result)

	result, err = Encode((*SBCParams)(nil))
	require.Error(t, err)
	assert.Nil(t, result)
}

// TestEncodeSBCLayout проверяет побайтовую раскладку SBC записи против
// фиксированного ожидаемого образа
func TestEncodeSBCLayout(t *testing.T) {
	result, err := Encode(SBCParams{
		Subbands:      8,
		BlockLength:   16,
		SamplingRate:  44100,
		Channels:      2, // stereo
		Alloc:         false,
		MinBitpool:    2,
		MaxBitpool:    53,
		Bitrate:       328000,
		BitsPerSample: 16,
	})
	require.NoError(t, err)

	expected := make([]byte, 0, SBCRecordSize)
	for _, v := range []uint32{
		MediaFmtSBC,
		8,      // num_subbands
		16,     // blk_len
		2,      // channel_mode: stereo
		1,      // alloc_method: SNR (alloc=false)
		328000, // bit_rate
		44100,  // sample_rate
	} {
		expected = binary.LittleEndian.AppendUint32(expected, v)
	}
	assert.Equal(t, expected, result.Blob)
	assert.Equal(t, uint32(44100), result.SampleRate)
	assert.Equal(t, uint32(2), result.Channels)
	assert.Equal(t, uint32(16), result.BitsPerSample)
}

// TestEncodeSBCChannelMode проверяет маппинг индекса режима каналов BT
// в константы DSP, включая значение по умолчанию
func TestEncodeSBCChannelMode(t *testing.T) {
	tests := []struct {
		name        string
		channels    uint8
		channelMode uint32
		encChannels uint32
	}{
		{"Mono", 0, SBCChannelModeMono, 1},
		{"Dual Mono", 1, SBCChannelModeDualMono, 2},
		{"Stereo", 2, SBCChannelModeStereo, 2},
		{"Joint Stereo", 3, SBCChannelModeJointStereo, 2},
		{"Неизвестный индекс по умолчанию Stereo", 7, SBCChannelModeStereo, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Encode(SBCParams{Channels: tt.channels, SamplingRate: 48000})
			require.NoError(t, err)
			assert.Equal(t, tt.channelMode, binary.LittleEndian.Uint32(result.Blob[12:16]))
			assert.Equal(t, tt.encChannels, result.Channels)
		})
	}
}

// TestEncodeSBCAllocMethod проверяет маппинг флага аллокации:
// контрактный с DSP, true кодируется как Loudness, false как SNR
func TestEncodeSBCAllocMethod(t *testing.T) {
	result, err := Encode(SBCParams{Alloc: true, SamplingRate: 48000})
	require.NoError(t, err)
	assert.Equal(t, SBCAllocLoudness, binary.LittleEndian.Uint32(result.Blob[16:20]))

	result, err = Encode(SBCParams{Alloc: false, SamplingRate: 48000})
	require.NoError(t, err)
	assert.Equal(t, SBCAllocSNR, binary.LittleEndian.Uint32(result.Blob[16:20]))
}

// TestEncodeAACMode проверяет маппинг enc_mode в Audio Object Type:
// 0 - LC, 2 - PS, 1 и любые прочие значения - SBR
func TestEncodeAACMode(t *testing.T) {
	tests := []struct {
		name    string
		encMode uint32
		aot     uint32
	}{
		{"LC", 0, AACModeLC},
		{"SBR канонический", 1, AACModeSBR},
		{"PS", 2, AACModePS},
		{"Неизвестный режим по умолчанию SBR", 9, AACModeSBR},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Encode(AACParams{EncMode: tt.encMode, Channels: 2, SamplingRate: 44100})
			require.NoError(t, err)
			assert.Equal(t, tt.aot, binary.LittleEndian.Uint32(result.Blob[8:12]))
		})
	}
}

// TestEncodeAACLayout проверяет раскладку AAC записи
func TestEncodeAACLayout(t *testing.T) {
	result, err := Encode(AACParams{
		EncMode:       0,
		FormatFlag:    1,
		Channels:      2,
		SamplingRate:  44100,
		Bitrate:       320000,
		BitsPerSample: 16,
	})
	require.NoError(t, err)

	expected := make([]byte, 0, AACRecordSize)
	expected = binary.LittleEndian.AppendUint32(expected, MediaFmtAAC)
	expected = binary.LittleEndian.AppendUint32(expected, 320000)
	expected = binary.LittleEndian.AppendUint32(expected, AACModeLC)
	expected = binary.LittleEndian.AppendUint16(expected, 1) // aac_fmt_flag
	expected = binary.LittleEndian.AppendUint16(expected, 2) // channel_cfg
	expected = binary.LittleEndian.AppendUint32(expected, 44100)
	assert.Equal(t, expected, result.Blob)
	assert.Equal(t, uint32(2), result.Channels)
}

// TestEncodeAPTXChannelMapping проверяет раскладку каналов custom
// записи: 1 канал - центральный, иначе левый и правый
func TestEncodeAPTXChannelMapping(t *testing.T) {
	// Моно: центральный канал
	result, err := Encode(APTXParams{SamplingRate: 44100, Channels: 1})
	require.NoError(t, err)
	assert.Equal(t, PCMChannelC, result.Blob[12])
	assert.Equal(t, uint8(0), result.Blob[13])
	assert.Equal(t, uint32(1), result.Channels)

	// Стерео (и любое иное значение): левый + правый
	result, err = Encode(APTXParams{SamplingRate: 44100, Channels: 2})
	require.NoError(t, err)
	assert.Equal(t, PCMChannelL, result.Blob[12])
	assert.Equal(t, PCMChannelR, result.Blob[13])
	assert.Equal(t, uint32(2), result.Channels)
}

// TestEncodeAPTXSyncMode проверяет выбор варианта записи по признаку
// dual mono: sync_mode попадает в запись только в dual mono варианте
func TestEncodeAPTXSyncMode(t *testing.T) {
	// Стандартный вариант: sync_mode не переносится из параметров
	result, err := Encode(APTXParams{SamplingRate: 48000, Channels: 2, SyncMode: 1})
	require.NoError(t, err)
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(result.Blob[24:28]))

	// Dual mono sync вариант
	result, err = Encode(APTXParams{SamplingRate: 48000, Channels: 2, DualMono: true, SyncMode: 1})
	require.NoError(t, err)
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(result.Blob[24:28]))
}

// TestEncodeAPTXCustomSizeZero проверяет, что custom_size у APTX записи
// остается нулевым (заполняется только для LDAC)
func TestEncodeAPTXCustomSizeZero(t *testing.T) {
	result, err := Encode(APTXParams{SamplingRate: 48000, Channels: 2})
	require.NoError(t, err)
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(result.Blob[20:24]))

	result, err = Encode(APTXHDParams{SamplingRate: 48000, Channels: 2})
	require.NoError(t, err)
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(result.Blob[20:24]))
}

// TestEncodeLDACLayout проверяет побайтовую раскладку LDAC записи для
// моно режима (channel_mode=4): центральный канал, один канал на DSP,
// custom_size равен полному размеру записи
func TestEncodeLDACLayout(t *testing.T) {
	result, err := Encode(LDACParams{
		SamplingRate:  48000,
		Bitrate:       606000,
		ChannelMode:   4,
		MTU:           679,
		BitsPerSample: 16,
	})
	require.NoError(t, err)

	expected := make([]byte, 0, LDACRecordSize)
	expected = binary.LittleEndian.AppendUint32(expected, MediaFmtLDAC)
	expected = binary.LittleEndian.AppendUint32(expected, 48000)
	expected = binary.LittleEndian.AppendUint16(expected, 1) // num_channels
	expected = binary.LittleEndian.AppendUint16(expected, 0) // reserved
	expected = append(expected, PCMChannelC, 0, 0, 0, 0, 0, 0, 0)
	expected = binary.LittleEndian.AppendUint32(expected, LDACRecordSize) // custom_size
	expected = binary.LittleEndian.AppendUint32(expected, 606000)
	expected = binary.LittleEndian.AppendUint16(expected, 4) // channel_mode
	expected = binary.LittleEndian.AppendUint16(expected, 679)
	assert.Equal(t, expected, result.Blob)

	// Производные параметры сессии: исходная частота, один канал
	assert.Equal(t, uint32(48000), result.SampleRate)
	assert.Equal(t, uint32(1), result.Channels)
}

// TestEncodeLDACChannelMode проверяет маппинг channel_mode в число
// каналов и раскладку каналов
func TestEncodeLDACChannelMode(t *testing.T) {
	tests := []struct {
		name        string
		channelMode uint16
		channels    uint32
		firstMap    uint8
	}{
		{"Mono", 4, 1, PCMChannelC},
		{"Stereo", 1, 2, PCMChannelL},
		{"Dual channel", 2, 2, PCMChannelL},
		{"Native и прочие - stereo", 0, 2, PCMChannelL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Encode(LDACParams{SamplingRate: 96000, ChannelMode: tt.channelMode})
			require.NoError(t, err)
			assert.Equal(t, tt.channels, result.Channels)
			assert.Equal(t, tt.firstMap, result.Blob[12])
		})
	}
}

// TestResetBlob проверяет инертную запись "нет формата"
func TestResetBlob(t *testing.T) {
	blob := ResetBlob()
	require.Len(t, blob, SBCRecordSize)
	for i, b := range blob {
		require.Zerof(t, b, "байт %d должен быть нулевым", i)
	}
	assert.Equal(t, MediaFmtNone, binary.LittleEndian.Uint32(blob[0:4]))
}
