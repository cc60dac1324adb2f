package dashboard

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tradebot/gomon/internal/metrics"
	"github.com/tradebot/gomon/pkg/sigchan"
)

var pollerLog = logrus.WithField("module", "dashboard.poller")

// Update 一次轮询的结果。Err 非空时 Snapshot 为空，渲染端保留上一帧数据，
// 只把错误显示在状态栏里。
type Update struct {
	Snapshot  *Snapshot
	Err       error
	FetchedAt time.Time
}

// HealthUpdate /health 的结果，独立于快照推送，到了就用，没到无所谓
type HealthUpdate struct {
	Info *HealthInfo
}

// Poller 固定间隔轮询 /data。同一时刻只允许一个请求在途：
// tick 到来时上一个请求还没回来就直接跳过这一拍，不排队不并发。
type Poller struct {
	client   *Client
	interval time.Duration
	refresh  *sigchan.Chan
	updateCh chan Update
	healthCh chan HealthUpdate
	inFlight atomic.Bool
	wg       sync.WaitGroup
}

func NewPoller(client *Client, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Poller{
		client:   client,
		interval: interval,
		refresh:  sigchan.New(1),
		updateCh: make(chan Update, 4),
		healthCh: make(chan HealthUpdate, 1),
	}
}

// Updates 快照推送通道
func (p *Poller) Updates() <-chan Update { return p.updateCh }

// HealthUpdates 后端信息推送通道
func (p *Poller) HealthUpdates() <-chan HealthUpdate { return p.healthCh }

// RefreshNow 请求立即刷新一次（按键触发）。信号满了就丢，反正马上要刷了。
func (p *Poller) RefreshNow() {
	p.refresh.Emit()
}

// Start 启动轮询循环，ctx 取消后停止。启动即拉一次，不等第一个 tick。
func (p *Poller) Start(ctx context.Context) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.fetch(ctx)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.fetch(ctx)
			case <-p.refresh.C():
				p.fetch(ctx)
			}
		}
	}()
}

// Wait 等轮询协程退出
func (p *Poller) Wait() {
	p.wg.Wait()
}

func (p *Poller) fetch(ctx context.Context) {
	if !p.inFlight.CompareAndSwap(false, true) {
		// 上一个请求还在路上，这一拍跳过
		metrics.PollSkipped.Add(1)
		return
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.inFlight.Store(false)

		metrics.PollCycles.Add(1)
		snap, err := p.client.Snapshot(ctx)
		if err != nil {
			metrics.PollErrors.Add(1)
			pollerLog.Warnf("拉取快照失败: %v", err)
		}
		p.push(Update{Snapshot: snap, Err: err, FetchedAt: time.Now()})

		if err == nil {
			// health 另起协程，失败静默，顺序无所谓
			p.wg.Add(1)
			go func() {
				defer p.wg.Done()
				metrics.HealthRefresh.Add(1)
				info, herr := p.client.Health(ctx)
				if herr != nil {
					pollerLog.Debugf("拉取 health 失败: %v", herr)
					return
				}
				select {
				case p.healthCh <- HealthUpdate{Info: info}:
				default:
				}
			}()
		}
	}()
}

// push 只留最新一帧，消费端来不及读就丢旧的
func (p *Poller) push(u Update) {
	for {
		select {
		case <-p.updateCh:
		default:
			goto drained
		}
	}
drained:
	select {
	case p.updateCh <- u:
	default:
	}
}
