package a2dp

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector собирает и экспортирует метрики A2DP сессии.
//
// Метрики создаются неавтоматически и регистрируются через MustRegister
// на переданном Registerer: это позволяет создавать несколько сессий
// (например, в тестах) без конфликтов регистрации.
type MetricsCollector struct {
	startsTotal      prometheus.Counter
	stopsTotal       prometheus.Counter
	suspendsTotal    prometheus.Counter
	resumesTotal     prometheus.Counter
	errorsTotal      *prometheus.CounterVec
	activeSessions   prometheus.Gauge
	stateTransitions *prometheus.CounterVec
}

// NewMetricsCollector создает сборщик метрик с указанным namespace.
func NewMetricsCollector(namespace string) *MetricsCollector {
	return &MetricsCollector{
		startsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "a2dp",
			Name:      "playback_starts_total",
			Help:      "Общее число запросов старта воспроизведения",
		}),
		stopsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "a2dp",
			Name:      "playback_stops_total",
			Help:      "Общее число запросов остановки воспроизведения",
		}),
		suspendsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "a2dp",
			Name:      "suspends_total",
			Help:      "Общее число переходов в suspend",
		}),
		resumesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "a2dp",
			Name:      "resumes_total",
			Help:      "Общее число выходов из suspend",
		}),
		errorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "a2dp",
			Name:      "errors_total",
			Help:      "Ошибки операций по кодам",
		}, []string{"code"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "a2dp",
			Name:      "active_sessions",
			Help:      "Текущий счетчик активных сессий",
		}),
		stateTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "a2dp",
			Name:      "state_transitions_total",
			Help:      "Переходы машины состояний",
		}, []string{"from", "to"}),
	}
}

// MustRegister регистрирует все метрики на Registerer.
func (m *MetricsCollector) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(
		m.startsTotal,
		m.stopsTotal,
		m.suspendsTotal,
		m.resumesTotal,
		m.errorsTotal,
		m.activeSessions,
		m.stateTransitions,
	)
}

// RecordStart учитывает успешный старт воспроизведения
func (m *MetricsCollector) RecordStart() {
	m.startsTotal.Inc()
}

// RecordStop учитывает запрос остановки воспроизведения
func (m *MetricsCollector) RecordStop() {
	m.stopsTotal.Inc()
}

// RecordSuspend учитывает переход в suspend
func (m *MetricsCollector) RecordSuspend() {
	m.suspendsTotal.Inc()
}

// RecordResume учитывает выход из suspend
func (m *MetricsCollector) RecordResume() {
	m.resumesTotal.Inc()
}

// RecordError учитывает ошибку операции по коду
func (m *MetricsCollector) RecordError(code ErrorCode) {
	m.errorsTotal.WithLabelValues(code.String()).Inc()
}

// SetActiveSessions обновляет gauge счетчика активных сессий
func (m *MetricsCollector) SetActiveSessions(n int) {
	m.activeSessions.Set(float64(n))
}

// RecordStateTransition учитывает переход машины состояний
func (m *MetricsCollector) RecordStateTransition(from, to string) {
	m.stateTransitions.WithLabelValues(from, to).Inc()
}
