package exporter

// ProgressEvent 导出进度事件
type ProgressEvent struct {
	Percent int    `json:"percent"`
	Stage   string `json:"stage"`
}

// ProgressFunc 进度回调，可为 nil
type ProgressFunc func(ProgressEvent)

func (fn ProgressFunc) report(percent int, stage string) {
	if fn == nil {
		return
	}
	fn(ProgressEvent{
		Percent: min(max(percent, 0), 100),
		Stage:   stage,
	})
}
