package core

var (
	_ Scheduler       = (*TimerScheduler)(nil)
	_ MetricsRecorder = NopMetricsRecorder{}
	_ Notifier        = NopNotifier{}
	_ ConfigProvider  = (*CfgxConfigProvider)(nil)
	_ OptionsResolver = GoOptionsResolver{}
	_ RawConfigLoader = staticRawConfigLoader{}
	_ error           = (*APIError)(nil)
)
