package pointcloud

import (
	"bufio"
	"fmt"
	"io"
	"math"
)

// WritePLY writes points as an ASCII PLY file with per-vertex colors
func WritePLY(w io.Writer, points []Point) error {
	bw := bufio.NewWriter(w)

	header := "ply\n" +
		"format ascii 1.0\n" +
		"comment generated by depthviz\n" +
		"element vertex %d\n" +
		"property float x\n" +
		"property float y\n" +
		"property float z\n" +
		"property uchar red\n" +
		"property uchar green\n" +
		"property uchar blue\n" +
		"end_header\n"
	if _, err := fmt.Fprintf(bw, header, len(points)); err != nil {
		return fmt.Errorf("failed to write PLY header: %w", err)
	}

	for _, p := range points {
		if _, err := fmt.Fprintf(bw, "%g %g %g %d %d %d\n",
			p.Position.X, p.Position.Y, p.Position.Z,
			toByte(p.R), toByte(p.G), toByte(p.B)); err != nil {
			return fmt.Errorf("failed to write PLY vertex: %w", err)
		}
	}

	return bw.Flush()
}

func toByte(v float32) uint8 {
	return uint8(math.Round(float64(min(max(v, 0), 1)) * 255))
}
