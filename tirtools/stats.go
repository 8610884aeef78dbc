package tirtools

import "math"

type AggFunc func(...float64) float64

func Mean(inData ...float64) float64 {
	sum := Sum(inData...)
	return sum / float64(len(inData))
}

func Sum(inData ...float64) float64 {
	var sum float64
	for _, val := range inData {
		sum += val
	}
	return sum
}

func Max(inData ...float64) float64 {
	max := inData[0]
	for _, val := range inData[1:] {
		if val > max {
			max = val
		}
	}
	return max
}

func Min(inData ...float64) float64 {
	min := inData[0]
	for _, val := range inData[1:] {
		if val < min {
			min = val
		}
	}
	return min
}

// Std is the population standard deviation, matching how the zonal
// statistics treat the masked pixels as the full population.
func Std(inData ...float64) float64 {
	mean := Mean(inData...)
	var ss float64
	for _, val := range inData {
		d := val - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(inData)))
}
