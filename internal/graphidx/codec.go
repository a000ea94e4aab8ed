// Package graphidx implements the binary on-disk codec for a graph.Graph
// (spec.md section 4.2): the "ENGI" format.
package graphidx

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/peniel-r/cortex/internal/cerr"
	"github.com/peniel-r/cortex/internal/graph"
)

const (
	magic          = "ENGI"
	formatVersion  = uint32(1)
)

// Save writes g to path in the ENGI binary format, atomically (write to a
// temp file in the same directory, then rename). The parent directory is
// created if absent.
func Save(g *graph.Graph, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return cerr.Wrap(cerr.ErrCodeIOError, err)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return cerr.Wrap(cerr.ErrCodeIOError, err)
	}

	if err := write(g, f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return cerr.Wrap(cerr.ErrCodeIOError, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return cerr.Wrap(cerr.ErrCodeIOError, err)
	}
	return nil
}

func write(g *graph.Graph, w io.Writer) error {
	bw := bufio.NewWriter(w)

	nodes := g.Nodes()
	if _, err := bw.WriteString(magic); err != nil {
		return cerr.Wrap(cerr.ErrCodeIOError, err)
	}
	if err := binary.Write(bw, binary.LittleEndian, formatVersion); err != nil {
		return cerr.Wrap(cerr.ErrCodeIOError, err)
	}
	if err := binary.Write(bw, binary.LittleEndian, uint64(len(nodes))); err != nil {
		return cerr.Wrap(cerr.ErrCodeIOError, err)
	}
	if err := binary.Write(bw, binary.LittleEndian, uint64(g.EdgeCount())); err != nil {
		return cerr.Wrap(cerr.ErrCodeIOError, err)
	}

	for _, id := range nodes {
		edges := g.AdjacentWeighted(id)
		if err := writeString(bw, id); err != nil {
			return err
		}
		if err := binary.Write(bw, binary.LittleEndian, uint32(len(edges))); err != nil {
			return cerr.Wrap(cerr.ErrCodeIOError, err)
		}
		for _, e := range edges {
			if err := writeString(bw, e.Target); err != nil {
				return err
			}
			if e.Weight < 0 || e.Weight > 255 {
				return cerr.New(cerr.ErrCodeInvalidFormat, fmt.Sprintf("edge weight %d out of u8 range for %s->%s", e.Weight, id, e.Target), nil)
			}
			if err := bw.WriteByte(byte(e.Weight)); err != nil {
				return cerr.Wrap(cerr.ErrCodeIOError, err)
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return cerr.Wrap(cerr.ErrCodeIOError, err)
	}
	return nil
}

func writeString(w io.Writer, s string) error {
	if len(s) > 0xFFFF {
		return cerr.New(cerr.ErrCodeInvalidFormat, "id too long for u16 length prefix", nil)
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(len(s))); err != nil {
		return cerr.Wrap(cerr.ErrCodeIOError, err)
	}
	if _, err := io.WriteString(w, s); err != nil {
		return cerr.Wrap(cerr.ErrCodeIOError, err)
	}
	return nil
}

// Load reads the ENGI format from path and rebuilds a graph.Graph.
// Reverse adjacency is not stored; it is reconstructed by AddEdge as
// forward edges are replayed. A bad magic or a version greater than this
// codec supports is refused without reading further.
func Load(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, cerr.New(cerr.ErrCodeFileNotFound, "graph index not found: "+path, err)
		}
		return nil, cerr.Wrap(cerr.ErrCodeIOError, err)
	}
	defer f.Close()

	br := bufio.NewReader(f)

	magicBuf := make([]byte, 4)
	if _, err := io.ReadFull(br, magicBuf); err != nil {
		return nil, cerr.Wrap(cerr.ErrCodeInvalidMagic, err)
	}
	if string(magicBuf) != magic {
		return nil, cerr.New(cerr.ErrCodeInvalidMagic, "graph index magic mismatch", nil)
	}

	var version uint32
	if err := binary.Read(br, binary.LittleEndian, &version); err != nil {
		return nil, cerr.Wrap(cerr.ErrCodeIOError, err)
	}
	if version > formatVersion {
		return nil, cerr.New(cerr.ErrCodeUnsupportedVersion, fmt.Sprintf("graph index version %d unsupported", version), nil)
	}

	var nodeCount, edgeCount uint64
	if err := binary.Read(br, binary.LittleEndian, &nodeCount); err != nil {
		return nil, cerr.Wrap(cerr.ErrCodeIOError, err)
	}
	if err := binary.Read(br, binary.LittleEndian, &edgeCount); err != nil {
		return nil, cerr.Wrap(cerr.ErrCodeIOError, err)
	}

	g := graph.New()
	for i := uint64(0); i < nodeCount; i++ {
		id, err := readString(br)
		if err != nil {
			return nil, err
		}
		var outDegree uint32
		if err := binary.Read(br, binary.LittleEndian, &outDegree); err != nil {
			return nil, cerr.Wrap(cerr.ErrCodeIOError, err)
		}
		g.AddNode(id)
		for j := uint32(0); j < outDegree; j++ {
			target, err := readString(br)
			if err != nil {
				return nil, err
			}
			weightByte, err := br.ReadByte()
			if err != nil {
				return nil, cerr.Wrap(cerr.ErrCodeIOError, err)
			}
			g.AddEdge(id, target, int(weightByte))
		}
	}

	return g, nil
}

func readString(r *bufio.Reader) (string, error) {
	var length uint16
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return "", cerr.Wrap(cerr.ErrCodeIOError, err)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", cerr.Wrap(cerr.ErrCodeIOError, err)
	}
	return string(buf), nil
}
