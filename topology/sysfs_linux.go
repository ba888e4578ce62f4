//go:build linux
// +build linux

// File: topology/sysfs_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux NUMA topology discovery via /sys/devices/system/node, in the
// same walk-and-parse style as the host's acceleration manager: read
// the node directories, the cpulist of each, and the distance row.

package topology

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const nodeDir = "/sys/devices/system/node"

type sysfsView struct {
	cpus      map[int][]int
	distances map[int][]int
	nodes     []int
}

func resolvePlatform() View {
	entries, err := os.ReadDir(nodeDir)
	if err != nil {
		return nil
	}

	v := &sysfsView{
		cpus:      make(map[int][]int),
		distances: make(map[int][]int),
	}
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "node") {
			continue
		}
		id, err := strconv.Atoi(strings.TrimPrefix(e.Name(), "node"))
		if err != nil {
			continue
		}
		v.nodes = append(v.nodes, id)
		v.cpus[id] = readCPUList(filepath.Join(nodeDir, e.Name(), "cpulist"))
		v.distances[id] = readDistanceRow(filepath.Join(nodeDir, e.Name(), "distance"))
	}
	if len(v.nodes) == 0 {
		return nil
	}
	return v
}

func readCPUList(path string) []int {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var cpus []int
	for _, part := range strings.Split(strings.TrimSpace(string(data)), ",") {
		if part == "" {
			continue
		}
		if lo, hi, ok := strings.Cut(part, "-"); ok {
			a, errA := strconv.Atoi(lo)
			b, errB := strconv.Atoi(hi)
			if errA != nil || errB != nil {
				continue
			}
			for c := a; c <= b; c++ {
				cpus = append(cpus, c)
			}
		} else {
			c, err := strconv.Atoi(part)
			if err == nil {
				cpus = append(cpus, c)
			}
		}
	}
	return cpus
}

func readDistanceRow(path string) []int {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	fields := strings.Fields(strings.TrimSpace(string(data)))
	row := make([]int, 0, len(fields))
	for _, f := range fields {
		d, err := strconv.Atoi(f)
		if err != nil {
			continue
		}
		row = append(row, d)
	}
	return row
}

func (v *sysfsView) NodeCount() int { return len(v.nodes) }

func (v *sysfsView) CPUsOf(node int) []int {
	return v.cpus[node]
}

func (v *sysfsView) Distance(a, b int) int {
	if a == b {
		return 0
	}
	row, ok := v.distances[a]
	if !ok || b < 0 || b >= len(row) {
		return 0
	}
	return row[b]
}
