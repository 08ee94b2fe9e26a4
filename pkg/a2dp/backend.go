package a2dp

import (
	"github.com/arzzra/a2dp_offload/pkg/codec"
	"github.com/arzzra/a2dp_offload/pkg/mixer"
)

// defaultEncoderBitFormat - разрядность энкодера по умолчанию.
const defaultEncoderBitFormat = 16

// setBackendCfg транслирует согласованные частоту и число каналов в две
// записи mixer: перечислимую частоту бэкенда и число входных каналов
// AFE. Каждая запись независимо может отказать; отказ логируется и
// прерывает только этот шаг конфигурации.
func (s *session) setBackendCfg() {
	samplingRate := s.encSampleRate

	// Для LDAC slimbus порт открывается на 96 kHz при входе 48 kHz
	// и на 88.2 kHz при входе 44.1 kHz
	if s.encoderCodec == codec.CodecLDAC &&
		(samplingRate == 48000 || samplingRate == 44100) {
		samplingRate = samplingRate * 2
	}

	var rateStr string
	switch samplingRate {
	case 44100:
		rateStr = mixer.RateKHZ44P1
	case 48000:
		rateStr = mixer.RateKHZ48
	case 88200:
		rateStr = mixer.RateKHZ88P2
	case 96000:
		rateStr = mixer.RateKHZ96
	default:
		rateStr = mixer.RateKHZ48
	}

	s.log.Debug("set backend sample rate", "rate", rateStr)
	ctlSampleRate, err := s.cfg.Mixer.ControlByName(mixer.ControlSampleRate)
	if err != nil {
		s.log.Error("ERROR backend sample rate mixer control not identified")
		return
	}
	if err := ctlSampleRate.SetEnum(rateStr); err != nil {
		s.log.Error("failed to set backend sample rate", "rate", rateStr, "error", err)
		return
	}

	var inChannels string
	switch s.encChannels {
	case 1:
		inChannels = mixer.ChannelsOne
	default:
		inChannels = mixer.ChannelsTwo
	}

	s.log.Debug("set AFE input channels", "channels", s.encChannels)
	ctlInChannels, err := s.cfg.Mixer.ControlByName(mixer.ControlInChannels)
	if err != nil {
		s.log.Error("ERROR AFE input channels mixer control not identified")
		return
	}
	if err := ctlInChannels.SetEnum(inChannels); err != nil {
		s.log.Error("failed to set AFE input channels", "channels", s.encChannels, "error", err)
		return
	}
}

// setBitFormat записывает входной бит-формат AFE по разрядности
// энкодера. Неизвестная разрядность отображается в 16 бит.
func (s *session) setBitFormat(bitsPerSample uint32) error {
	var bitFormat string
	switch bitsPerSample {
	case 32:
		bitFormat = mixer.FormatS32LE
	case 24:
		bitFormat = mixer.FormatS24LE
	default:
		bitFormat = mixer.FormatS16LE
	}

	s.log.Debug("set AFE input bit format", "bits", bitsPerSample)
	ctl, err := s.cfg.Mixer.ControlByName(mixer.ControlEncBitFormat)
	if err != nil {
		s.log.Error("ERROR AFE input bit format mixer control not identified")
		return wrapError(ErrorCodeNotFound, err, "AFE input bit format mixer control not identified")
	}
	if err := ctl.SetEnum(bitFormat); err != nil {
		s.log.Error("failed to set AFE input bit format", "bits", bitsPerSample, "error", err)
		return wrapError(ErrorCodeHardwareRejected, err, "failed to set AFE input bit format")
	}
	return nil
}

// resetBackendCfg возвращает бэкенд к неактивным значениям-стражам.
func (s *session) resetBackendCfg() {
	rateStr := mixer.RateKHZ8
	inChannels := mixer.ChannelsZero

	s.log.Debug("reset backend sample rate", "rate", rateStr)
	ctlSampleRate, err := s.cfg.Mixer.ControlByName(mixer.ControlSampleRate)
	if err != nil {
		s.log.Error("ERROR backend sample rate mixer control not identified")
		return
	}
	if err := ctlSampleRate.SetEnum(rateStr); err != nil {
		s.log.Error("failed to reset backend sample rate", "rate", rateStr, "error", err)
		return
	}

	s.log.Debug("reset AFE input channels", "channels", inChannels)
	ctlInChannels, err := s.cfg.Mixer.ControlByName(mixer.ControlInChannels)
	if err != nil {
		s.log.Error("ERROR AFE input channels mixer control not identified")
		return
	}
	if err := ctlInChannels.SetEnum(inChannels); err != nil {
		s.log.Error("failed to reset AFE input channels", "error", err)
		return
	}
}
