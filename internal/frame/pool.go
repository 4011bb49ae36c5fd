package frame

import (
	"image"
	"sync"
)

// Pool переиспользует буферы image.RGBA одного размера, чтобы снизить
// нагрузку на GC при покадровом рендеринге. Каждый запуск конвейера
// создает собственный Pool: общего изменяемого состояния между
// независимыми запусками нет.
type Pool struct {
	pools map[string]*sync.Pool
	mu    sync.RWMutex
}

func NewPool() *Pool {
	return &Pool{pools: make(map[string]*sync.Pool)}
}

// Get возвращает *image.RGBA нужного размера из пула или создает новый.
func (p *Pool) Get(rect image.Rectangle) *image.RGBA {
	key := rect.String()
	p.mu.RLock()
	pool, exists := p.pools[key]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		// Double check
		pool, exists = p.pools[key]
		if !exists {
			pool = &sync.Pool{
				New: func() interface{} {
					return image.NewRGBA(rect)
				},
			}
			p.pools[key] = pool
		}
		p.mu.Unlock()
	}

	img := pool.Get().(*image.RGBA)
	clear(img.Pix)
	return img
}

// Put возвращает буфер в пул.
func (p *Pool) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	key := img.Rect.String()
	p.mu.RLock()
	pool, exists := p.pools[key]
	p.mu.RUnlock()

	if exists {
		pool.Put(img)
	}
}
