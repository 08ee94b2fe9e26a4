package a2dp

import (
	"context"
	"log/slog"

	"github.com/looplab/fsm"

	"github.com/arzzra/a2dp_offload/pkg/btipc"
	"github.com/arzzra/a2dp_offload/pkg/codec"
	"github.com/arzzra/a2dp_offload/pkg/mixer"
)

// defaultSampleRate - базовая частота дискретизации сессии.
const defaultSampleRate = 48000

// session - единственный на аудио устройство экземпляр состояния A2DP
// offload пути. Все поля - единый источник истины; переходы
// сериализуются блокировкой устройства, которую держит вызывающая
// сторона (см. документацию пакета).
type session struct {
	cfg Config
	log *slog.Logger

	// Машина состояний жизненного цикла
	stateMachine *fsm.FSM

	// Таблица операций radio IPC сервиса; nil - хэндл не загружен.
	// Владение эксклюзивное: освобождается при неудаче открытия пути.
	svc *btipc.Service

	// Сконфигурированный кодек DSP энкодера
	encoderCodec codec.Codec
	// Частота дискретизации, сконфигурированная на DSP энкодере
	encSampleRate uint32
	// Число каналов, сконфигурированных на DSP энкодере
	encChannels uint32

	// Флаг запущенного аудио datapath
	started bool
	// Флаг приостановленного аудио datapath
	suspended bool
	// Счетчик активных сессий на A2DP выходе
	activeSessions int
	// Поддержка A2DP offload (фиксируется при инициализации)
	offloadSupported bool
	// Признак идущей смены устройства / реконфигурации кодека
	handoffInProgress bool
}

// NewSession создает A2DP сессию и приводит ее к базовому состоянию:
// сбрасывает конфигурацию энкодера на mixer controls и читает свойство
// поддержки offload. Mixer и Loader обязательны.
func NewSession(cfg Config) (Session, error) {
	if cfg.Mixer == nil {
		return nil, newError(ErrorCodeInvalidState, "mixer registry is required")
	}
	if cfg.Loader == nil {
		return nil, newError(ErrorCodeInvalidState, "radio IPC loader is required")
	}
	if cfg.Property == nil {
		cfg.Property = envProperty
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	s := &session{
		cfg: cfg,
		log: cfg.Logger.With("component", "a2dp"),
	}
	s.initStateMachine()
	s.commonInit()
	s.encSampleRate = defaultSampleRate

	s.offloadSupported = parseBoolValue(cfg.Property(PropOffloadEnabled))
	s.log.Debug("A2DP offload support", "supported", s.offloadSupported)

	// Начальный сброс конфигурации энкодера; отказ mixer не фатален
	if err := s.resetEncoderConfig(); err != nil {
		s.log.Warn("initial encoder config reset failed", "error", err)
	}

	return s, nil
}

// initStateMachine инициализирует конечный автомат состояний
func (s *session) initStateMachine() {
	s.stateMachine = fsm.NewFSM(
		StateDisconnected.String(),
		fsm.Events{
			// Открытие A2DP пути
			{Name: "connect", Src: []string{StateDisconnected.String()}, Dst: StateConnected.String()},
			// Первый успешный старт воспроизведения
			{Name: "start", Src: []string{StateConnected.String(), StateStopped.String()}, Dst: StateStarted.String()},
			// Остановка при возврате счетчика сессий к нулю
			{Name: "stop", Src: []string{StateStarted.String()}, Dst: StateStopped.String()},
			// Закрытие пути
			{Name: "disconnect", Src: []string{
				StateConnected.String(), StateStarted.String(), StateStopped.String(),
			}, Dst: StateDisconnected.String()},
		},
		fsm.Callbacks{
			"after_event": func(ctx context.Context, e *fsm.Event) {
				s.log.Debug("state transition", "event", e.Event, "from", e.Src, "to", e.Dst)
				if s.cfg.Metrics != nil {
					s.cfg.Metrics.RecordStateTransition(e.Src, e.Dst)
				}
			},
		},
	)
}

// commonInit сбрасывает поля сессии к базовому состоянию
func (s *session) commonInit() {
	s.started = false
	s.activeSessions = 0
	s.suspended = false
	s.encoderCodec = codec.CodecNone
	s.stateMachine.SetState(StateDisconnected.String())
	if s.cfg.Metrics != nil {
		s.cfg.Metrics.SetActiveSessions(0)
	}
}

// fireEvent выполняет переход машины состояний; невалидный переход -
// ошибка программирования, логируется
func (s *session) fireEvent(event string) {
	if err := s.stateMachine.Event(context.Background(), event); err != nil {
		s.log.Error("state machine event rejected", "event", event,
			"state", s.stateMachine.Current(), "error", err)
	}
}

// Connect открывает A2DP путь. См. Session.Connect.
func (s *session) Connect() error {
	s.log.Debug("open A2DP output start")

	if !s.stateMachine.Is(StateDisconnected.String()) {
		s.log.Debug("A2DP open called with improper state, ignoring request",
			"state", s.stateMachine.Current())
		return newError(ErrorCodeInvalidState,
			"open not allowed in state %s", s.stateMachine.Current())
	}

	if s.svc == nil {
		s.log.Debug("requesting radio IPC service handle")
		svc, err := s.cfg.Loader.Load()
		if err != nil {
			s.log.Error("radio IPC service load failed", "error", err)
			if s.cfg.Metrics != nil {
				s.cfg.Metrics.RecordError(ErrorCodeLoadFailure)
			}
			return wrapError(ErrorCodeLoadFailure, err, "radio IPC service load failed")
		}
		s.svc = svc
	}

	if s.svc.StreamOpen == nil {
		s.log.Error("A2DP handle is not identified, ignoring open request")
		return newError(ErrorCodeLoadFailure, "stream open operation not bound")
	}

	s.log.Debug("calling Bluetooth stream open")
	if ret := s.svc.StreamOpen(); ret != 0 {
		s.log.Error("failed to open output stream for A2DP", "status", ret)
		// Хэндл освобождается, следующий Connect привяжет его заново
		s.svc = nil
		if s.cfg.Metrics != nil {
			s.cfg.Metrics.RecordError(ErrorCodeHardwareRejected)
		}
		return newError(ErrorCodeHardwareRejected, "stream open returned %d", ret)
	}

	s.fireEvent("connect")
	return nil
}

// Disconnect закрывает A2DP путь. См. Session.Disconnect.
func (s *session) Disconnect() error {
	if s.svc == nil || s.svc.StreamClose == nil {
		s.log.Error("A2DP handle is not identified, ignoring close request")
	} else if !s.stateMachine.Is(StateDisconnected.String()) {
		s.log.Debug("calling Bluetooth stream close")
		if !s.svc.StreamClose() {
			s.log.Error("failed to close A2DP control path")
		}
	}

	// Собственное состояние завершается всегда, независимо от исхода
	// вызова коллаборатора: застрявшее состояние заблокировало бы все
	// последующие операции
	s.commonInit()
	s.encSampleRate = defaultSampleRate
	s.encChannels = 0

	return nil
}

// StartPlayback запускает воспроизведение. См. Session.StartPlayback.
func (s *session) StartPlayback() error {
	s.log.Debug("start playback")

	if s.svc == nil || s.svc.StreamStart == nil || s.svc.GetCodecConfig == nil {
		s.log.Error("A2DP handle is not identified, ignoring start request")
		return newError(ErrorCodeUnavailable, "radio IPC service not bound")
	}

	if s.suspended {
		// Сессия будет перезапущена после завершения suspend
		s.log.Debug("A2DP start requested during suspend state")
		return newError(ErrorCodeBusy, "start requested during suspend state")
	}

	if !s.started && s.activeSessions == 0 {
		s.log.Debug("calling Bluetooth module stream start")
		if ret := s.svc.StreamStart(); ret != 0 {
			s.log.Error("Bluetooth controller start failed", "status", ret)
			s.started = false
			if s.cfg.Metrics != nil {
				s.cfg.Metrics.RecordError(ErrorCodeHardwareRejected)
			}
			return newError(ErrorCodeHardwareRejected, "stream start returned %d", ret)
		}
		if err := s.configureEncoder(); err != nil {
			s.log.Error("unable to configure DSP encoder", "error", err)
			s.started = false
			if s.cfg.Metrics != nil {
				s.cfg.Metrics.RecordError(ErrorCodeHardwareRejected)
			}
			return wrapError(ErrorCodeHardwareRejected, err, "unable to configure DSP encoder")
		}
		s.started = true
		s.fireEvent("start")
		s.log.Debug("start playback successful")
	}

	if s.started {
		s.activeSessions++
		if s.cfg.Metrics != nil {
			s.cfg.Metrics.RecordStart()
			s.cfg.Metrics.SetActiveSessions(s.activeSessions)
		}
		// Конфигурация скремблера и бэкенда применяется на каждом
		// старте, включая уже запущенные сессии
		if err := s.checkAndSetScrambler(); err != nil {
			s.log.Error("scrambler configuration failed", "error", err)
		}
		s.setBackendCfg()
	}

	s.log.Debug("start A2DP playback", "active_sessions", s.activeSessions)
	return nil
}

// configureEncoder запрашивает согласованную конфигурацию кодека у
// radio IPC сервиса, кодирует DSP запись и записывает ее вместе с
// бит-форматом через mixer. На успехе обновляет поля энкодера сессии.
func (s *session) configureEncoder() error {
	cc, err := s.svc.GetCodecConfig()
	if err != nil {
		return wrapError(ErrorCodeHardwareRejected, err, "failed to get codec config from BT")
	}
	if cc == nil || cc.Params == nil {
		return newError(ErrorCodeHardwareRejected, "no codec config received from BT")
	}

	params := cc.Params
	// Выбор варианта APTX записи задается признаком сессии, а не
	// параметрами handshake
	switch aptx := params.(type) {
	case codec.APTXParams:
		aptx.DualMono = s.cfg.APTXDualMono
		params = aptx
	case *codec.APTXParams:
		cp := *aptx
		cp.DualMono = s.cfg.APTXDualMono
		params = cp
	}
	s.log.Debug("received encoder config from Bluetooth device",
		"codec", params.Codec().String(), "devices", cc.DeviceCount)

	result, err := codec.Encode(params)
	if err != nil {
		return wrapError(ErrorCodeHardwareRejected, err, "encoder config rejected")
	}

	ctl, err := s.cfg.Mixer.ControlByName(mixer.ControlEncConfigBlock)
	if err != nil {
		s.log.Error("ERROR A2DP encoder config data mixer control not identified")
		return wrapError(ErrorCodeNotFound, err, "encoder config mixer control not identified")
	}
	if err := ctl.SetBytes(result.Blob); err != nil {
		return wrapError(ErrorCodeHardwareRejected, err,
			"failed to set %s encoder config", result.Codec)
	}
	if err := s.setBitFormat(result.BitsPerSample); err != nil {
		return err
	}

	s.encoderCodec = result.Codec
	s.encSampleRate = result.SampleRate
	s.encChannels = result.Channels
	s.log.Debug("successfully updated encoder format",
		"codec", result.Codec.String(),
		"sample_rate", result.SampleRate,
		"channels", result.Channels)
	return nil
}

// checkAndSetScrambler включает скремблер в DSP, если BT SoC требует
// скремблирования. Выключение не требуется.
func (s *session) checkAndSetScrambler() error {
	scramblerMode := false
	if s.svc != nil && s.svc.ScramblingEnabled != nil &&
		!s.stateMachine.Is(StateDisconnected.String()) {
		scramblerMode = s.svc.ScramblingEnabled()
	}
	if !scramblerMode {
		return nil
	}

	ctl, err := s.cfg.Mixer.ControlByName(mixer.ControlScramblerMode)
	if err != nil {
		s.log.Error("ERROR scrambler mode mixer control not identified")
		return wrapError(ErrorCodeNotFound, err, "scrambler mode mixer control not identified")
	}
	if err := ctl.SetBool(true); err != nil {
		s.log.Error("could not set scrambler mode", "error", err)
		return wrapError(ErrorCodeHardwareRejected, err, "could not set scrambler mode")
	}
	return nil
}

// StopPlayback останавливает воспроизведение. См. Session.StopPlayback.
func (s *session) StopPlayback() error {
	s.log.Debug("stop playback")

	if s.svc == nil || s.svc.StreamStop == nil {
		s.log.Error("A2DP handle is not identified, ignoring stop request")
		return newError(ErrorCodeUnavailable, "radio IPC service not bound")
	}

	if s.activeSessions > 0 {
		s.activeSessions--
	} else {
		s.log.Warn("no active playback session requests on A2DP")
	}

	if s.started && s.activeSessions == 0 {
		s.log.Debug("calling Bluetooth module stream stop")
		if ret := s.svc.StreamStop(); ret < 0 {
			s.log.Error("stop stream to Bluetooth IPC failed", "status", ret)
		}
		if err := s.resetEncoderConfig(); err != nil {
			s.log.Warn("encoder config reset failed", "error", err)
		}
		s.resetBackendCfg()
		s.started = false
		s.fireEvent("stop")
	}

	if s.cfg.Metrics != nil {
		s.cfg.Metrics.RecordStop()
		s.cfg.Metrics.SetActiveSessions(s.activeSessions)
	}
	s.log.Debug("stop A2DP playback", "active_sessions", s.activeSessions)
	return nil
}

// resetEncoderConfig записывает инертную запись "нет формата" в контрол
// конфигурации энкодера и возвращает бит-формат к 16 битам.
func (s *session) resetEncoderConfig() error {
	ctl, err := s.cfg.Mixer.ControlByName(mixer.ControlEncConfigBlock)
	if err != nil {
		s.log.Error("ERROR A2DP encoder format mixer control not identified")
	} else {
		if err := ctl.SetBytes(codec.ResetBlob()); err != nil {
			s.log.Error("failed to reset encoder config", "error", err)
		}
		s.encoderCodec = codec.CodecNone
	}

	return s.setBitFormat(defaultEncoderBitFormat)
}

// SetHandoffMode включает/выключает режим смены устройства. Начало
// handoff дополнительно сообщается Bluetooth стеку, если операция
// уведомления привязана.
func (s *session) SetHandoffMode(on bool) {
	s.handoffInProgress = on
	if on && s.svc != nil && s.svc.HandoffTriggered != nil {
		s.svc.HandoffTriggered()
	}
}

// IsForceDeviceSwitch сообщает необходимость принудительного
// переключения пути: идет реконфигурация кодека, либо устройство A2DP
// выбрано, но предыдущий старт не удался (например, из-за suspend).
func (s *session) IsForceDeviceSwitch() bool {
	return s.handoffInProgress || !s.started
}

// SampleRate возвращает согласованную частоту дискретизации.
func (s *session) SampleRate() uint32 {
	return s.encSampleRate
}

// IsReady сообщает готовность A2DP к воспроизведению.
func (s *session) IsReady() bool {
	if s.suspended {
		return false
	}
	if !s.stateMachine.Is(StateDisconnected.String()) &&
		s.offloadSupported &&
		s.svc != nil && s.svc.CheckReady != nil {
		return s.svc.CheckReady()
	}
	return false
}

// IsSuspended сообщает, приостановлена ли сессия.
func (s *session) IsSuspended() bool {
	return s.suspended
}

// State возвращает текущее состояние жизненного цикла.
func (s *session) State() State {
	switch s.stateMachine.Current() {
	case StateConnected.String():
		return StateConnected
	case StateStarted.String():
		return StateStarted
	case StateStopped.String():
		return StateStopped
	default:
		return StateDisconnected
	}
}

// ActiveSessions возвращает счетчик активных сессий.
func (s *session) ActiveSessions() int {
	return s.activeSessions
}

// ActiveCodec возвращает сконфигурированный кодек энкодера.
func (s *session) ActiveCodec() codec.Codec {
	return s.encoderCodec
}

// EncoderLatency возвращает оценку задержки активного энкодера.
// Переопределение читается из свойства при каждом вызове.
func (s *session) EncoderLatency() uint32 {
	var override *codec.LatencyOverride
	if value := s.cfg.Property(PropCodecLatencies); value != "" {
		if o, ok := codec.ParseLatencyOverride(value); ok {
			override = &o
		} else {
			s.log.Info("failed to parse avsync offset params", "value", value)
		}
	}
	return codec.Latency(s.encoderCodec, override)
}

// parseBoolValue интерпретирует значение свойства как булево
func parseBoolValue(value string) bool {
	switch value {
	case "true", "1", "on", "yes":
		return true
	default:
		return false
	}
}
