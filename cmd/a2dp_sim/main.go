// Демонстрационная утилита A2DP offload сессии: прогоняет полный
// жизненный цикл (connect -> start -> suspend -> resume -> stop ->
// disconnect) на стаб-реестре mixer controls и фейковом radio IPC
// сервисе, печатая выполненные записи mixer.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/arzzra/a2dp_offload/pkg/a2dp"
	"github.com/arzzra/a2dp_offload/pkg/btipc"
	"github.com/arzzra/a2dp_offload/pkg/codec"
	"github.com/arzzra/a2dp_offload/pkg/mixer"
)

func main() {
	var (
		codecName = flag.String("codec", "sbc", "Кодек: sbc, aptx, aptxhd, aac, ldac")
		debug     = flag.Bool("debug", false, "Подробное логирование")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	params, ok := codecParams(*codecName)
	if !ok {
		fmt.Printf("Неизвестный кодек: %s\n", *codecName)
		fmt.Println("Доступные кодеки: sbc, aptx, aptxhd, aac, ldac")
		os.Exit(1)
	}

	registry := mixer.NewStubRegistry()
	svc := fakeService(params)

	var deviceLock sync.Mutex
	cfg := a2dp.DefaultConfig()
	cfg.Mixer = registry
	cfg.Loader = btipc.LoaderFunc(func() (*btipc.Service, error) { return svc, nil })
	cfg.DeviceLock = &deviceLock
	cfg.Logger = logger
	cfg.Property = func(key string) string {
		if key == a2dp.PropOffloadEnabled {
			return "true"
		}
		return ""
	}

	session, err := a2dp.NewSession(cfg)
	if err != nil {
		fmt.Printf("Создание сессии не удалось: %v\n", err)
		os.Exit(1)
	}

	deviceLock.Lock()
	defer deviceLock.Unlock()

	run := func(op string, fn func() error) {
		if err := fn(); err != nil {
			fmt.Printf("%s: %v\n", op, err)
			os.Exit(1)
		}
		fmt.Printf("%s: ok (state=%s sessions=%d codec=%s rate=%d latency=%dms)\n",
			op, session.State(), session.ActiveSessions(),
			session.ActiveCodec(), session.SampleRate(), session.EncoderLatency())
	}

	run("connect", session.Connect)
	run("start", session.StartPlayback)

	session.SetParameters(map[string]string{a2dp.ParamSuspended: "true"})
	fmt.Printf("suspend: suspended=%v ready=%v\n", session.IsSuspended(), session.IsReady())
	session.SetParameters(map[string]string{a2dp.ParamSuspended: "false"})
	fmt.Printf("resume: suspended=%v ready=%v\n", session.IsSuspended(), session.IsReady())

	run("stop", session.StopPlayback)
	run("disconnect", session.Disconnect)

	fmt.Println("\nЗаписи mixer controls:")
	for _, name := range []string{
		mixer.ControlEncConfigBlock,
		mixer.ControlEncBitFormat,
		mixer.ControlSampleRate,
		mixer.ControlInChannels,
	} {
		for _, blob := range registry.BytesWrites(name) {
			fmt.Printf("  %-28s <- % x\n", name, blob)
		}
		for _, value := range registry.EnumWrites(name) {
			fmt.Printf("  %-28s <- %s\n", name, value)
		}
	}
}

// codecParams возвращает типовые согласованные параметры для кодека
func codecParams(name string) (codec.Params, bool) {
	switch name {
	case "sbc":
		return codec.SBCParams{
			Subbands:      8,
			BlockLength:   16,
			SamplingRate:  48000,
			Channels:      2,
			Alloc:         true,
			MinBitpool:    2,
			MaxBitpool:    51,
			Bitrate:       328000,
			BitsPerSample: 16,
		}, true
	case "aptx":
		return codec.APTXParams{
			SamplingRate:  48000,
			Channels:      2,
			Bitrate:       352000,
			BitsPerSample: 16,
		}, true
	case "aptxhd":
		return codec.APTXHDParams{
			SamplingRate:  48000,
			Channels:      2,
			Bitrate:       576000,
			BitsPerSample: 24,
		}, true
	case "aac":
		return codec.AACParams{
			EncMode:       0,
			FormatFlag:    0,
			Channels:      2,
			SamplingRate:  44100,
			Bitrate:       320000,
			BitsPerSample: 16,
		}, true
	case "ldac":
		return codec.LDACParams{
			SamplingRate:  96000,
			Bitrate:       990000,
			ChannelMode:   1,
			MTU:           679,
			BitsPerSample: 32,
		}, true
	default:
		return nil, false
	}
}

// fakeService возвращает полностью привязанную таблицу IPC операций
func fakeService(params codec.Params) *btipc.Service {
	return &btipc.Service{
		StreamOpen:       func() int { return 0 },
		StreamClose:      func() bool { return true },
		StreamStart:      func() int { return 0 },
		StreamStop:       func() int { return 0 },
		StreamSuspend:    func() int { return 0 },
		HandoffTriggered: func() {},
		ClearSuspendFlag: func() {},
		GetCodecConfig: func() (*btipc.CodecConfig, error) {
			return &btipc.CodecConfig{Params: params, DeviceCount: 1}, nil
		},
		CheckReady:        func() bool { return true },
		ScramblingEnabled: func() bool { return false },
	}
}
