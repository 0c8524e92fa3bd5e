package service

// Notifier 临时提示 (成功/信息/错误)，控制台打印，测试记录
type Notifier interface {
	Success(msg string)
	Info(msg string)
	Error(msg string)
}

// NopNotifier 丢弃所有提示
type NopNotifier struct{}

func (NopNotifier) Success(string) {}
func (NopNotifier) Info(string)    {}
func (NopNotifier) Error(string)   {}
