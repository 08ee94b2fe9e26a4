// Package a2dp реализует машину состояний offloaded A2DP сессии и
// движок конфигурации DSP энкодера.
//
// Пакет управляет жизненным циклом аппаратного аудио пути Bluetooth
// A2DP: открытие/закрытие/старт/стоп через radio IPC сервис, трансляция
// согласованных параметров кодека в DSP запись (pkg/codec), запись
// конфигурации через реестр mixer controls (pkg/mixer) и согласование
// состояния при suspend/resume и горячей смене устройства.
//
// # Основные возможности
//
//   - Строгая машина состояний Disconnected -> Connected -> Started ->
//     Stopped с откатом при неудаче открытия пути
//   - Подсчет ссылок активных сессий: аппаратный старт выполняется один
//     раз, аппаратный стоп - только при возврате счетчика к нулю
//   - Suspend/resume координация с отложенным перезапуском логически
//     активных сессий и паузой/восстановлением use-case'ов через
//     менеджер устройств
//   - Конфигурация скремблера и бэкенда (частота, каналы, бит-формат)
//   - Оценка задержки энкодера по активному кодеку с внешним
//     переопределением
//   - Prometheus метрики операций и переходов состояний
//
// # Модель конкурентности
//
// Все операции сессии синхронные и блокирующие. Сессия не содержит
// собственной блокировки: вызывающая сторона обязана держать единую
// блокировку уровня аудио устройства при вызове любой операции
// (Connect/Disconnect/StartPlayback/StopPlayback/SetParameters и
// запросов состояния). Единственная документированная точка отпускания -
// внутри suspend/resume координатора вокруг вызовов менеджера устройств
// (Config.DeviceLock), так как менеджер может реентерабельно обращаться
// к аудио маршрутизации. В окне отпускания поля сессии находятся в
// валидном, хотя и не финальном, состоянии.
package a2dp
