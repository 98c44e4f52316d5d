package dice

import (
	"math/rand"
	"sync"
)

// Faces 骰子面数
const Faces = 6

// Roller 掷骰器
// 随机源显式注入而不是用全局生成器，测试里固定种子就能拿到确定的序列
// rand.Rand 本身不是并发安全的，HTTP 模式下多个 handler 会同时掷骰，这里加锁保护
type Roller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRoller 创建掷骰器
func NewRoller(rng *rand.Rand) *Roller {
	return &Roller{rng: rng}
}

// Roll 掷一次骰子，返回 [1,6] 内均匀分布的整数
// 结果只作为 span 属性记录，不参与任何控制流
func (r *Roller) Roll() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.rng.Intn(Faces) + 1
}

// Jitter 返回 [min, min+spread) 内的随机整数，用于模拟工作耗时的毫秒数
func (r *Roller) Jitter(min, spread int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return min + r.rng.Intn(spread)
}
