package rabbitmq_common

// Logger - логгер пакетов rabbitmq в стиле key-value.
// Сервис подключает свой логгер через мост (см. adapters/rabbitmq).
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(err error, msg string, keysAndValues ...interface{})
}

// LoggerOrNoop возвращает logger, а если он nil - логгер, который ничего не пишет.
func LoggerOrNoop(logger Logger) Logger {
	if logger == nil {
		return discard{}
	}
	return logger
}

type discard struct{}

func (discard) Debug(string, ...interface{})        {}
func (discard) Info(string, ...interface{})         {}
func (discard) Warn(string, ...interface{})         {}
func (discard) Error(error, string, ...interface{}) {}
