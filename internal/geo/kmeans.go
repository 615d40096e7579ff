// Package geo clusters schools into operational hotspot zones with a small
// fixed-iteration k-means over their coordinates.
package geo

import "math"

const kmeansIterations = 8

// clusterCount picks k from the point count: enough points get four
// clusters, small districts degrade to two.
func clusterCount(points int) int {
	switch {
	case points >= 9:
		return 4
	case points >= 5:
		return 3
	default:
		return 2
	}
}

// Cluster groups items by planar k-means over the coordinates produced by
// coords. Centers seed from the first k items and refine for a fixed number
// of iterations. Empty clusters are dropped.
func Cluster[T any](items []T, coords func(T) (lat, lng float64)) [][]T {
	if len(items) == 0 {
		return nil
	}

	k := clusterCount(len(items))
	if k > len(items) {
		k = len(items)
	}

	type point struct{ lat, lng float64 }
	centers := make([]point, k)
	for i := 0; i < k; i++ {
		lat, lng := coords(items[i])
		centers[i] = point{lat, lng}
	}

	assignments := make([]int, len(items))
	for iter := 0; iter < kmeansIterations; iter++ {
		for i, item := range items {
			lat, lng := coords(item)
			best, bestDist := 0, math.MaxFloat64
			for c, center := range centers {
				dLat := lat - center.lat
				dLng := lng - center.lng
				dist := dLat*dLat + dLng*dLng
				if dist < bestDist {
					best, bestDist = c, dist
				}
			}
			assignments[i] = best
		}

		sums := make([]point, k)
		counts := make([]int, k)
		for i, item := range items {
			lat, lng := coords(item)
			c := assignments[i]
			sums[c].lat += lat
			sums[c].lng += lng
			counts[c]++
		}
		for c := range centers {
			if counts[c] > 0 {
				centers[c] = point{sums[c].lat / float64(counts[c]), sums[c].lng / float64(counts[c])}
			}
		}
	}

	grouped := make([][]T, k)
	for i, item := range items {
		c := assignments[i]
		grouped[c] = append(grouped[c], item)
	}

	clusters := make([][]T, 0, k)
	for _, group := range grouped {
		if len(group) > 0 {
			clusters = append(clusters, group)
		}
	}
	return clusters
}
