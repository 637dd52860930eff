package webgpu

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/go-theft-auto/imbridge"
)

func TestEncodeVertices(t *testing.T) {
	vtx := []imbridge.Vertex{
		{Pos: [2]float32{1, 2}, UV: [2]float32{0.5, 0.25}, Color: 0xFF112233},
		{Pos: [2]float32{-3, 4}},
	}
	b := encodeVertices(nil, vtx)
	if len(b) != 2*imbridge.VertexStride {
		t.Fatalf("encoded %d bytes", len(b))
	}
	f := func(off int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(b[off:])) }
	if f(0) != 1 || f(4) != 2 || f(8) != 0.5 || f(12) != 0.25 {
		t.Errorf("first vertex = %v %v %v %v", f(0), f(4), f(8), f(12))
	}
	if c := binary.LittleEndian.Uint32(b[16:]); c != 0xFF112233 {
		t.Errorf("color = %#x", c)
	}
	if f(imbridge.VertexStride) != -3 {
		t.Errorf("second vertex x = %v", f(imbridge.VertexStride))
	}
}

func TestEncodeIndicesPadsToFourBytes(t *testing.T) {
	b := encodeIndices([]byte{9, 9, 9, 9, 9, 9, 9, 9}, []uint16{1, 2, 3})
	if len(b) != 8 {
		t.Fatalf("encoded %d bytes, want 8", len(b))
	}
	for i, want := range []uint16{1, 2, 3, 0} {
		if got := binary.LittleEndian.Uint16(b[i*2:]); got != want {
			t.Errorf("index %d = %d, want %d", i, got, want)
		}
	}
}

func TestAlign4(t *testing.T) {
	for n, want := range map[int]uint64{0: 0, 1: 4, 4: 4, 6: 8, 12: 12} {
		if got := align4(n); got != want {
			t.Errorf("align4(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestEncodeMatrixIsColumnMajor(t *testing.T) {
	m := imbridge.OrthoProjection(imbridge.Vec2{}, imbridge.Vec2{X: 800, Y: 600})
	b := encodeMatrix(m)
	if len(b) != uniformSize {
		t.Fatalf("encoded %d bytes", len(b))
	}
	// Translation lives in the fourth column.
	tx := math.Float32frombits(binary.LittleEndian.Uint32(b[12*4:]))
	if tx != m[12] || tx != -1 {
		t.Errorf("translation x = %v", tx)
	}
}

func TestSamplerDescriptor(t *testing.T) {
	d := samplerDescriptor(imbridge.FontSampler)
	if d.MinFilter != wgpu.FilterModeLinear || d.MipmapFilter != wgpu.MipmapFilterModeLinear {
		t.Errorf("font sampler filters = %v/%v", d.MinFilter, d.MipmapFilter)
	}
	if d.AddressModeU != wgpu.AddressModeRepeat || d.LodMaxClamp != 0 {
		t.Errorf("font sampler address %v lod %v", d.AddressModeU, d.LodMaxClamp)
	}

	d = samplerDescriptor(imbridge.SamplerDesc{Filter: imbridge.FilterPoint, Address: imbridge.AddressClamp, MipLevels: 4})
	if d.MagFilter != wgpu.FilterModeNearest || d.AddressModeV != wgpu.AddressModeClampToEdge || d.LodMaxClamp != 3 {
		t.Errorf("point sampler = %+v", d)
	}
}

func TestBlendState(t *testing.T) {
	b := blendState(imbridge.AlphaBlend)
	if b.Color.SrcFactor != wgpu.BlendFactorSrcAlpha || b.Color.DstFactor != wgpu.BlendFactorOneMinusSrcAlpha {
		t.Errorf("color blend = %+v", b.Color)
	}
	if b.Alpha.Operation != wgpu.BlendOperationAdd {
		t.Errorf("alpha op = %v", b.Alpha.Operation)
	}
}
