package dashboard

import (
	"github.com/pkg/errors"

	"github.com/tradebot/gomon/pkg/prefstore"
)

const (
	prefKeyTimezone = "timezone"
	prefKeyTheme    = "theme"
)

// Prefs 本地持久化的界面偏好（时区、主题）。读失败一律回退默认值，
// 偏好丢了重选一次就是，不值得让面板起不来。
type Prefs struct {
	store *prefstore.Store
}

func OpenPrefs(dir string) (*Prefs, error) {
	store, err := prefstore.Open(dir)
	if err != nil {
		return nil, errors.Wrap(err, "open prefs store")
	}
	return &Prefs{store: store}, nil
}

func (p *Prefs) Close() error {
	if p == nil || p.store == nil {
		return nil
	}
	return p.store.Close()
}

// Timezone 上次选择的时区，没存过返回空串
func (p *Prefs) Timezone() string {
	if p == nil || p.store == nil {
		return ""
	}
	v, ok, err := p.store.GetString(prefKeyTimezone)
	if err != nil || !ok {
		return ""
	}
	return v
}

func (p *Prefs) SetTimezone(tz string) {
	if p == nil || p.store == nil {
		return
	}
	if err := p.store.SetString(prefKeyTimezone, tz); err != nil {
		log.Warnf("保存时区偏好失败: %v", err)
	}
}

// Theme 上次选择的主题，没存过返回空串
func (p *Prefs) Theme() string {
	if p == nil || p.store == nil {
		return ""
	}
	v, ok, err := p.store.GetString(prefKeyTheme)
	if err != nil || !ok {
		return ""
	}
	return v
}

func (p *Prefs) SetTheme(theme string) {
	if p == nil || p.store == nil {
		return
	}
	if err := p.store.SetString(prefKeyTheme, theme); err != nil {
		log.Warnf("保存主题偏好失败: %v", err)
	}
}
