package a2dp

import (
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arzzra/a2dp_offload/pkg/btipc"
	"github.com/arzzra/a2dp_offload/pkg/codec"
	"github.com/arzzra/a2dp_offload/pkg/mixer"
)

// fakeRadio - управляемый фейк radio IPC сервиса с подсчетом вызовов.
type fakeRadio struct {
	openCalls         int
	closeCalls        int
	startCalls        int
	stopCalls         int
	suspendCalls      int
	clearSuspendCalls int
	handoffCalls      int
	configCalls       int

	openRet    int
	startRets  []int // коды возврата очередных StreamStart; пусто - успех
	stopRet    int
	suspendRet int
	closeRet   bool

	ready      bool
	scrambling bool

	params    codec.Params
	configErr error
}

func newFakeRadio() *fakeRadio {
	return &fakeRadio{
		closeRet: true,
		ready:    true,
		params: codec.SBCParams{
			Subbands:      8,
			BlockLength:   16,
			SamplingRate:  48000,
			Channels:      2,
			Bitrate:       328000,
			BitsPerSample: 16,
		},
	}
}

// service возвращает полностью привязанную таблицу операций
func (r *fakeRadio) service() *btipc.Service {
	return &btipc.Service{
		StreamOpen: func() int {
			r.openCalls++
			return r.openRet
		},
		StreamClose: func() bool {
			r.closeCalls++
			return r.closeRet
		},
		StreamStart: func() int {
			r.startCalls++
			if len(r.startRets) > 0 {
				ret := r.startRets[0]
				r.startRets = r.startRets[1:]
				return ret
			}
			return 0
		},
		StreamStop: func() int {
			r.stopCalls++
			return r.stopRet
		},
		StreamSuspend: func() int {
			r.suspendCalls++
			return r.suspendRet
		},
		HandoffTriggered: func() {
			r.handoffCalls++
		},
		ClearSuspendFlag: func() {
			r.clearSuspendCalls++
		},
		GetCodecConfig: func() (*btipc.CodecConfig, error) {
			r.configCalls++
			if r.configErr != nil {
				return nil, r.configErr
			}
			return &btipc.CodecConfig{Params: r.params, DeviceCount: 1}, nil
		},
		CheckReady:        func() bool { return r.ready },
		ScramblingEnabled: func() bool { return r.scrambling },
	}
}

// restoreCall - зафиксированный вызов RestoreUsecase.
type restoreCall struct {
	usecaseID string
	restoring bool
	// lockFree фиксирует, была ли блокировка устройства отпущена на
	// момент вызова
	lockFree bool
}

// fakeDeviceManager - фейк менеджера устройств, фиксирующий запросы
// restore и состояние блокировки устройства в момент каждого вызова.
type fakeDeviceManager struct {
	usecases []Usecase
	calls    []restoreCall
	err      error
	lock     *sync.Mutex
}

func (m *fakeDeviceManager) Usecases() []Usecase {
	return m.usecases
}

func (m *fakeDeviceManager) RestoreUsecase(uc Usecase, restoring bool) error {
	lockFree := false
	if m.lock != nil && m.lock.TryLock() {
		lockFree = true
		m.lock.Unlock()
	}
	m.calls = append(m.calls, restoreCall{
		usecaseID: uc.ID,
		restoring: restoring,
		lockFree:  lockFree,
	})
	return m.err
}

// testEnv собирает коллабораторов сессии для теста. Поля radio, props и
// dm настраиваются до вызова start.
type testEnv struct {
	registry  *mixer.StubRegistry
	radio     *fakeRadio
	dm        *fakeDeviceManager
	lock      sync.Mutex
	props     map[string]string
	loadErr   error
	loadCalls int
	cfg       Config
}

func newTestEnv() *testEnv {
	env := &testEnv{
		registry: mixer.NewStubRegistry(),
		radio:    newFakeRadio(),
		props: map[string]string{
			PropOffloadEnabled: "true",
		},
	}
	env.dm = &fakeDeviceManager{lock: &env.lock}
	env.cfg = Config{
		Mixer: env.registry,
		Property: func(key string) string {
			return env.props[key]
		},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return env
}

// start создает сессию поверх текущего состояния окружения
func (env *testEnv) start(t *testing.T) Session {
	t.Helper()
	env.cfg.Loader = btipc.LoaderFunc(func() (*btipc.Service, error) {
		env.loadCalls++
		if env.loadErr != nil {
			return nil, env.loadErr
		}
		return env.radio.service(), nil
	})
	env.cfg.DeviceManager = env.dm
	env.cfg.DeviceLock = &env.lock

	session, err := NewSession(env.cfg)
	require.NoError(t, err)
	return session
}

// connectAndPlay выполняет connect + start, требуя успеха
func connectAndPlay(t *testing.T, session Session) {
	t.Helper()
	require.NoError(t, session.Connect())
	require.NoError(t, session.StartPlayback())
}
