package dashboard

import "strings"

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// sparkline 把净值序列压成一行块状字符。点数多于宽度时等距抽样，
// 全部等值时画一条中线。无值的点跳过。
func sparkline(points []EquityPoint, width int) string {
	if width < 1 {
		return ""
	}
	values := make([]float64, 0, len(points))
	for _, p := range points {
		if !p.Y.Valid {
			continue
		}
		values = append(values, p.Y.Value.InexactFloat64())
	}
	if len(values) == 0 {
		return ""
	}
	if len(values) > width {
		sampled := make([]float64, width)
		if width == 1 {
			sampled[0] = values[len(values)-1]
		} else {
			for i := 0; i < width; i++ {
				sampled[i] = values[i*(len(values)-1)/(width-1)]
			}
		}
		values = sampled
	}

	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	var b strings.Builder
	if max == min {
		for range values {
			b.WriteRune(sparkRunes[len(sparkRunes)/2])
		}
		return b.String()
	}
	span := max - min
	for _, v := range values {
		idx := int((v - min) / span * float64(len(sparkRunes)-1))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkRunes) {
			idx = len(sparkRunes) - 1
		}
		b.WriteRune(sparkRunes[idx])
	}
	return b.String()
}
