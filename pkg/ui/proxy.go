package ui

import (
	"sync"

	"github.com/go-drift/weft/pkg/entity"
	"github.com/go-drift/weft/pkg/event"
)

// Proxy is the only part of a Context that other goroutines may use. It
// queues events and closures that the next Tick drains on the UI
// goroutine.
type Proxy struct {
	mu     sync.Mutex
	items  []proxyItem
	notify func()
}

type proxyItem struct {
	ev *event.Event
	fn func(cx *Context)
}

// Emit queues ev for dispatch on the next tick.
func (p *Proxy) Emit(ev *event.Event) {
	p.push(proxyItem{ev: ev})
}

// Send queues an ascending event carrying msg from target.
func (p *Proxy) Send(target entity.Entity, msg any) {
	p.Emit(event.New(target, msg))
}

// Do queues fn to run on the UI goroutine at the start of the next tick.
func (p *Proxy) Do(fn func(cx *Context)) {
	p.push(proxyItem{fn: fn})
}

// Len returns the number of queued items.
func (p *Proxy) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}

func (p *Proxy) push(it proxyItem) {
	p.mu.Lock()
	p.items = append(p.items, it)
	notify := p.notify
	p.mu.Unlock()
	if notify != nil {
		notify()
	}
}

func (p *Proxy) drain() []proxyItem {
	p.mu.Lock()
	defer p.mu.Unlock()
	items := p.items
	p.items = nil
	return items
}
