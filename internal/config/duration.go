package config

import "time"

// Duration 支持 "5s"、"1m30s" 文本形式的时长（TOML 与环境变量共用）
type Duration time.Duration

// UnmarshalText 实现 encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText 实现 encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std 转为 time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}
