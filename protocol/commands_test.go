package protocol

import (
	"bytes"
	"strings"
	"testing"
)

func TestBuildArgumentCmds(t *testing.T) {
	tests := []struct {
		name string
		got  []byte
		want []byte
	}{
		{
			name: "set address 0x0100",
			got:  BuildSetAddressCmd(0x0100),
			want: []byte{'s', 0x00, 0x01},
		},
		{
			name: "set address 0x3FFF",
			got:  BuildSetAddressCmd(0x3FFF),
			want: []byte{'s', 0xFF, 0x3F},
		},
		{
			name: "set length 4",
			got:  BuildSetLengthCmd(4),
			want: []byte{'l', 0x04, 0x00},
		},
		{
			name: "set length max",
			got:  BuildSetLengthCmd(MaxTransferLength),
			want: []byte{'l', 0xFF, 0xFF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !bytes.Equal(tt.got, tt.want) {
				t.Errorf("frame = % 02X, want % 02X", tt.got, tt.want)
			}
		})
	}
}

func TestBuildSingleByteCmds(t *testing.T) {
	tests := []struct {
		name string
		got  []byte
		want byte
	}{
		{"write", BuildWriteCmd(), 'd'},
		{"read", BuildReadCmd(), 'r'},
		{"read next", BuildReadNextCmd(), '+'},
		{"reset", BuildResetCmd(), '0'},
		{"abort", BuildAbortCmd(), 'x'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.got) != 1 || tt.got[0] != tt.want {
				t.Errorf("frame = % 02X, want %02X", tt.got, tt.want)
			}
		})
	}
}

func TestBuildProbeCmd(t *testing.T) {
	tests := []struct {
		name    string
		pattern int
		want    byte
		wantErr bool
	}{
		{name: "pattern 1", pattern: 1, want: '1'},
		{name: "pattern 2", pattern: 2, want: '2'},
		{name: "pattern 0", pattern: 0, wantErr: true},
		{name: "pattern 3", pattern: 3, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := BuildProbeCmd(tt.pattern)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), "probe pattern") {
					t.Errorf("error = %v, want probe pattern message", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(frame) != 1 || frame[0] != tt.want {
				t.Errorf("frame = % 02X, want %02X", frame, tt.want)
			}
		})
	}
}

func TestBuildContinue(t *testing.T) {
	if got := BuildContinue(true); !bytes.Equal(got, []byte{Continue}) {
		t.Errorf("BuildContinue(true) = % 02X", got)
	}
	if got := BuildContinue(false); !bytes.Equal(got, []byte{Abort}) {
		t.Errorf("BuildContinue(false) = % 02X", got)
	}
}

func TestDecodeArgument(t *testing.T) {
	for _, v := range []uint16{0, 1, 0x00FF, 0x0100, 0x3FFF, 0xFFFF} {
		frame := BuildSetLengthCmd(v)
		if got := DecodeArgument(frame[1], frame[2]); got != v {
			t.Errorf("DecodeArgument(% 02X) = 0x%04X, want 0x%04X", frame[1:], got, v)
		}
	}
}
