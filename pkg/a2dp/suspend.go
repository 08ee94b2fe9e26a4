package a2dp

import "strconv"

// SetParameters обрабатывает события вида ключ/значение от вызывающей
// стороны: подключение/отключение устройства и смену состояния suspend.
// Значение устройства интерпретируется как числовой код и фильтруется
// по принадлежности к классу A2DP.
func (s *session) SetParameters(params map[string]string) {
	if !s.offloadSupported {
		s.log.Debug("no supported encoders identified, ignoring A2DP setparam")
		return
	}

	if value, ok := params[ParamDeviceConnect]; ok {
		if device, err := strconv.Atoi(value); err == nil && IsA2DPOutDevice(DeviceType(device)) {
			s.log.Debug("received device connect request for A2DP")
			if err := s.Connect(); err != nil {
				s.log.Error("A2DP open failed", "error", err)
			}
		}
		return
	}

	if value, ok := params[ParamDeviceDisconnect]; ok {
		if device, err := strconv.Atoi(value); err == nil && IsA2DPOutDevice(DeviceType(device)) {
			s.log.Debug("received device disconnect request")
			if err := s.resetEncoderConfig(); err != nil {
				s.log.Warn("encoder config reset failed", "error", err)
			}
			if err := s.Disconnect(); err != nil {
				s.log.Error("A2DP close failed", "error", err)
			}
		}
		return
	}

	if value, ok := params[ParamSuspended]; ok {
		if s.svc == nil || s.stateMachine.Is(StateDisconnected.String()) {
			return
		}
		suspend := value == "true"
		switch {
		case suspend && !s.suspended:
			s.enterSuspend()
		case !suspend && s.suspended:
			s.leaveSuspend()
		}
		// Повторные сигналы с тем же значением - no-op
		return
	}
}

// enterSuspend переводит сессию в состояние suspend: приостанавливает
// use-case'ы, маршрутизированные на A2DP, сбрасывает конфигурацию
// энкодера и приостанавливает аппаратный поток.
func (s *session) enterSuspend() {
	s.log.Debug("setting A2DP to suspend state")
	s.suspended = true
	if s.cfg.Metrics != nil {
		s.cfg.Metrics.RecordSuspend()
	}

	s.restoreUsecases(false)

	if err := s.resetEncoderConfig(); err != nil {
		s.log.Warn("encoder config reset failed", "error", err)
	}
	if s.svc.StreamSuspend != nil {
		if ret := s.svc.StreamSuspend(); ret != 0 {
			s.log.Error("stream suspend failed", "status", ret)
		}
	}
}

// leaveSuspend выводит сессию из suspend. Если к моменту suspend
// оставались логически активные сессии (например, музыка на паузе при
// голосовой активации: compress сессия закрывается только по таймауту
// паузы), свежий StartPlayback до resume не придет - аппаратный старт
// выполняется здесь проактивно по счетчику активных сессий.
func (s *session) leaveSuspend() {
	s.log.Debug("resetting A2DP suspend state")
	if s.svc.ClearSuspendFlag != nil {
		s.svc.ClearSuspendFlag()
	}
	s.suspended = false
	if s.cfg.Metrics != nil {
		s.cfg.Metrics.RecordResume()
	}

	if s.activeSessions > 0 {
		s.log.Debug("calling Bluetooth IPC start post suspend state")
		if s.svc.StreamStart != nil {
			if ret := s.svc.StreamStart(); ret != 0 {
				s.log.Error("Bluetooth controller start failed", "status", ret)
				// Счетчик сессий не откатывается: логически они активны
				if s.started {
					s.started = false
					s.fireEvent("stop")
				}
			}
		}
	}

	s.restoreUsecases(true)
}

// restoreUsecases запрашивает у менеджера устройств перевод каждого
// активного PCM playback use-case, маршрутизированного на A2DP, с пути
// (restoring=false) либо обратно на него (restoring=true).
//
// Блокировка устройства временно отпускается вокруг каждого вызова
// менеджера: тот может реентерабельно обращаться к аудио маршрутизации,
// и удержание блокировки привело бы к инверсии порядка захвата. Поля
// сессии в окне отпускания находятся в валидном состоянии.
func (s *session) restoreUsecases(restoring bool) {
	if s.cfg.DeviceManager == nil {
		return
	}

	for _, uc := range s.cfg.DeviceManager.Usecases() {
		if uc.Type != UsecasePCMPlayback || !IsA2DPOutDevice(uc.Devices) {
			continue
		}
		if s.cfg.DeviceLock != nil {
			s.cfg.DeviceLock.Unlock()
		}
		err := s.cfg.DeviceManager.RestoreUsecase(uc, restoring)
		if s.cfg.DeviceLock != nil {
			s.cfg.DeviceLock.Lock()
		}
		if err != nil {
			s.log.Error("usecase restore request failed",
				"usecase", uc.ID, "restoring", restoring, "error", err)
		}
	}
}
