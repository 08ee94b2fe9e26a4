// Package codec реализует трансляцию согласованных параметров Bluetooth
// кодеков в бинарные конфигурационные записи DSP энкодера.
//
// Пакет является чистым слоем преобразования: на вход подается набор
// параметров одного из пяти кодеков (SBC, APTX, APTX-HD, AAC, LDAC),
// полученный от Bluetooth стека при старте A2DP сессии, на выходе -
// упакованная запись фиксированной раскладки, которую аудио HAL
// записывает в mixer control DSP энкодера.
//
// # Основные возможности
//
//   - Типизированное представление параметров кодека (tagged union через
//     интерфейс Params вместо сырых указателей)
//   - Побайтовая сериализация DSP записей с явным порядком и шириной полей
//     (little-endian, без неявного выравнивания структур)
//   - Производные параметры сессии (sample rate, число каналов), которые
//     A2DP сессия запоминает после успешной конфигурации
//   - Таблица задержек энкодеров с поддержкой внешнего переопределения
//
// # Контракт с DSP
//
// Раскладка записей и порядок полей являются контрактом с firmware DSP
// и не подлежат изменению. Каждая запись начинается с общего заголовка
// (тег формата, sample rate для custom-записей) и продолжается
// специфичными для кодека полями.
//
// Пакет не имеет побочных эффектов: запись в mixer control выполняет
// вызывающая сторона (pkg/a2dp).
package codec
