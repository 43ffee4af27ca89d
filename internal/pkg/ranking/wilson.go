package ranking

import (
	"math"
)

// z 值取 1.96，对应 95% 置信水平
const z = 1.96

// WilsonLowerBound 计算赞踩比例的 Wilson 置信下界，作为 best 排序键。
// 纯函数，不落库：相同 (up, down) 永远得到相同分数。
func WilsonLowerBound(up, down int) float64 {
	n := float64(up + down)
	if n == 0 {
		return 0
	}

	phat := float64(up) / n
	z2 := z * z

	numerator := phat + z2/(2*n) - z*math.Sqrt((phat*(1-phat)+z2/(4*n))/n)
	return numerator / (1 + z2/n)
}

// NetScore top 排序键：赞减踩
func NetScore(up, down int) int {
	return up - down
}
