// Package core implements the PCG64 random number generator.
//
// The PCG algorithm is designed by Melissa O'Neill.
// Portions of the bounded random generation logic (IntN) are
// adapted from the Go standard library (math/rand), which is
// licensed under the BSD 3-Clause License.

package core

import (
	"crypto/rand"
	"math"
	"math/big"
	"math/bits"
	r2 "math/rand/v2"
)

// PCG64 亂數產生器
type PCG64 struct {
	rng *r2.PCG
}

// NewPCG64 使用加密隨機來源產生 seed，建立新的 PCG64 實例。
func NewPCG64() *PCG64 {
	seed, _ := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	return NewPCG64WithSeed(seed.Int64())
}

// NewPCG64WithSeed 以指定 seed 建立新的 PCG64 實例。
//
// seed 先經 splitmix64 展開成 128-bit 初始狀態，避免相鄰 seed
// （模擬器派生子 seed 時常見）落在相近的狀態軌道上。
func NewPCG64WithSeed(seed int64) *PCG64 {
	x := uint64(seed) ^ 0x9e3779b97f4a7c15
	hi := splitmix64(x)
	lo := splitmix64(x ^ 0xDA942042E4DD58B5)
	return &PCG64{rng: r2.NewPCG(hi, lo)}
}

//---------------------------------------
// 回傳方法
//---------------------------------------

// Uint64 回傳非負整數uint64亂數
func (r *PCG64) Uint64() uint64 {
	return r.rng.Uint64()
}

// IntN 產出[0,n) 的整數，若 max <= 0 回傳 -1
func (r *PCG64) IntN(max int) int {
	if max <= 0 {
		return -1
	}
	return int(r.uint64n(uint64(max)))
}

// Float64 產出float64(53bits精度)
func (r *PCG64) Float64() float64 {
	return float64(r.Uint64()<<11>>11) / (1 << 53)
}

// Restore 恢復內部狀態
func (r *PCG64) Restore(data []byte) error {
	return r.rng.UnmarshalBinary(data)
}

// Snapshot 取得當下內部狀態
func (r *PCG64) Snapshot() ([]byte, error) {
	return r.rng.MarshalBinary()
}

//---------------------------------------
// 內部方法
//---------------------------------------

// splitmix64 將輸入值混洗成新的 64-bit 狀態，用於種子展開。
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// uint64n 回傳 [0,n) 的無偏亂數（基於乘法高位與拒絕採樣）。
func (r *PCG64) uint64n(n uint64) uint64 {
	if n&(n-1) == 0 { // n is power of two, can mask
		return r.Uint64() & (n - 1)
	}
	hi, lo := bits.Mul64(r.Uint64(), n)
	if lo < n {
		thresh := -n % n
		for lo < thresh {
			hi, lo = bits.Mul64(r.Uint64(), n)
		}
	}
	return hi
}
