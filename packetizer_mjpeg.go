// RTP/JPEG (RFC 2435) packetization for MJPEG camera frames.
package nokhwa

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/pion/rtp"
)

// JPEG markers used by the payload scanner.
const (
	jpegMarkerSOI  = 0xd8
	jpegMarkerEOI  = 0xd9
	jpegMarkerSOF0 = 0xc0
	jpegMarkerDQT  = 0xdb
	jpegMarkerDRI  = 0xdd
	jpegMarkerSOS  = 0xda
)

// PayloadTypeJPEG is the static RTP payload type for JPEG/90000 (RFC 3551).
const PayloadTypeJPEG = 26

// MJPEGPacketizer converts raw MJPEG camera frames into RTP packets using
// the RFC 2435 JPEG payload format with explicit quantization tables.
type MJPEGPacketizer struct {
	ssrc      uint32
	mtu       int
	sequencer rtp.Sequencer
	clockRate uint32
	mu        sync.Mutex
}

// NewMJPEGPacketizer creates an RTP/JPEG packetizer.
func NewMJPEGPacketizer(ssrc uint32, mtu int) *MJPEGPacketizer {
	if mtu <= 0 {
		mtu = 1200
	}
	return &MJPEGPacketizer{
		ssrc:      ssrc,
		mtu:       mtu,
		sequencer: rtp.NewRandomSequencer(),
		clockRate: 90000,
	}
}

// ClockRate returns the RTP clock rate for JPEG (90 kHz).
func (p *MJPEGPacketizer) ClockRate() uint32 { return p.clockRate }

// SSRC returns the packetizer's synchronization source id.
func (p *MJPEGPacketizer) SSRC() uint32 { p.mu.Lock(); defer p.mu.Unlock(); return p.ssrc }

// SetSSRC sets the synchronization source id.
func (p *MJPEGPacketizer) SetSSRC(ssrc uint32) { p.mu.Lock(); p.ssrc = ssrc; p.mu.Unlock() }

// MTU returns the maximum transmission unit used for fragmenting.
func (p *MJPEGPacketizer) MTU() int { p.mu.Lock(); defer p.mu.Unlock(); return p.mtu }

// SetMTU sets the maximum transmission unit.
func (p *MJPEGPacketizer) SetMTU(mtu int) { p.mu.Lock(); p.mtu = mtu; p.mu.Unlock() }

// jpegScan is the part of a baseline JPEG that the RTP payload carries.
type jpegScan struct {
	width       uint16
	height      uint16
	subsampling uint8  // RFC 2435 type: 0 = 4:2:2, 1 = 4:2:0
	qtables     []byte // Concatenated 8-bit quantization tables, in table-id order
	scan        []byte // Entropy-coded segment, without the trailing EOI
}

// Packetize converts one MJPEG frame into RTP packets. The frame timestamp
// is in 90 kHz units; the marker bit is set on the final packet.
//
// Frames must be baseline JFIF without restart markers, with dimensions
// divisible by 8 and at most 2040 pixels per axis (RFC 2435 limits).
func (p *MJPEGPacketizer) Packetize(frame []byte, timestamp uint32) ([]*rtp.Packet, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	scan, err := parseJPEGScan(frame)
	if err != nil {
		return nil, err
	}

	// Quantization table header, sent with the first fragment only (Q=255).
	qtHeader := make([]byte, 4+len(scan.qtables))
	binary.BigEndian.PutUint16(qtHeader[2:], uint16(len(scan.qtables)))
	copy(qtHeader[4:], scan.qtables)

	maxPayload := p.mtu - 12 // RTP header
	if maxPayload <= 8+len(qtHeader) {
		return nil, fmt.Errorf("mtu %d too small for RTP/JPEG headers", p.mtu)
	}

	var packets []*rtp.Packet
	offset := 0
	for offset < len(scan.scan) {
		header := make([]byte, 8)
		header[0] = 0 // type-specific
		header[1] = byte(offset >> 16)
		header[2] = byte(offset >> 8)
		header[3] = byte(offset)
		header[4] = scan.subsampling
		header[5] = 255 // Q: tables are explicit
		header[6] = byte(scan.width / 8)
		header[7] = byte(scan.height / 8)

		payload := header
		if offset == 0 {
			payload = append(payload, qtHeader...)
		}

		room := maxPayload - len(payload)
		chunk := len(scan.scan) - offset
		if chunk > room {
			chunk = room
		}
		payload = append(payload, scan.scan[offset:offset+chunk]...)
		offset += chunk

		packets = append(packets, &rtp.Packet{
			Header: rtp.Header{
				Version:        2,
				Marker:         offset == len(scan.scan),
				PayloadType:    PayloadTypeJPEG,
				SequenceNumber: p.sequencer.NextSequenceNumber(),
				Timestamp:      timestamp,
				SSRC:           p.ssrc,
			},
			Payload: payload,
		})
	}
	return packets, nil
}

// parseJPEGScan walks the JFIF marker stream and extracts what RFC 2435
// needs: geometry, subsampling, quantization tables, and the scan data.
func parseJPEGScan(data []byte) (*jpegScan, error) {
	scanErr := func(detail string) error {
		return &ProcessFrameError{Src: FrameFormatMJPEG, Destination: "RTP/JPEG", Err: detail}
	}

	if len(data) < 4 || data[0] != 0xff || data[1] != jpegMarkerSOI {
		return nil, scanErr("missing SOI marker")
	}

	result := &jpegScan{}
	tables := map[uint8][]byte{}
	var maxTableID uint8
	sawSOF := false

	i := 2
	for i+4 <= len(data) {
		if data[i] != 0xff {
			return nil, scanErr(fmt.Sprintf("expected marker at offset %d", i))
		}
		if data[i+1] == 0xff {
			// 0xff fill byte before the marker proper
			i++
			continue
		}
		marker := data[i+1]
		length := int(binary.BigEndian.Uint16(data[i+2 : i+4]))
		if length < 2 || i+2+length > len(data) {
			return nil, scanErr(fmt.Sprintf("truncated segment 0x%02x", marker))
		}
		segment := data[i+4 : i+2+length]

		switch marker {
		case jpegMarkerDQT:
			for len(segment) > 0 {
				precision := segment[0] >> 4
				id := segment[0] & 0x0f
				if precision != 0 {
					return nil, scanErr("16-bit quantization tables are not supported")
				}
				if len(segment) < 65 {
					return nil, scanErr("truncated quantization table")
				}
				tables[id] = segment[1:65]
				if id > maxTableID {
					maxTableID = id
				}
				segment = segment[65:]
			}

		case jpegMarkerSOF0:
			if len(segment) < 15 {
				return nil, scanErr("truncated SOF0 segment")
			}
			result.height = binary.BigEndian.Uint16(segment[1:3])
			result.width = binary.BigEndian.Uint16(segment[3:5])
			if result.width == 0 || result.height == 0 ||
				result.width%8 != 0 || result.height%8 != 0 ||
				result.width > 2040 || result.height > 2040 {
				return nil, scanErr(fmt.Sprintf("unrepresentable dimensions %dx%d", result.width, result.height))
			}
			switch segment[7] { // sampling factors of the Y component
			case 0x21:
				result.subsampling = 0 // 4:2:2
			case 0x22:
				result.subsampling = 1 // 4:2:0
			default:
				return nil, scanErr(fmt.Sprintf("unsupported subsampling 0x%02x", segment[7]))
			}
			sawSOF = true

		case jpegMarkerDRI:
			if len(segment) >= 2 && binary.BigEndian.Uint16(segment[:2]) != 0 {
				return nil, scanErr("restart markers are not supported")
			}

		case jpegMarkerSOS:
			if !sawSOF {
				return nil, scanErr("SOS before SOF0")
			}
			scanStart := i + 2 + length
			scanEnd, err := findScanEnd(data, scanStart)
			if err != nil {
				return nil, scanErr(err.Error())
			}
			result.scan = data[scanStart:scanEnd]
			for id := uint8(0); id <= maxTableID; id++ {
				table, ok := tables[id]
				if !ok {
					return nil, scanErr(fmt.Sprintf("missing quantization table %d", id))
				}
				result.qtables = append(result.qtables, table...)
			}
			if len(result.qtables) == 0 {
				return nil, scanErr("no quantization tables")
			}
			return result, nil
		}

		i += 2 + length
	}
	return nil, scanErr("missing SOS marker")
}

// findScanEnd locates the end of the entropy-coded segment, skipping byte
// stuffing and restart markers.
func findScanEnd(data []byte, start int) (int, error) {
	for i := start; i+1 < len(data); i++ {
		if data[i] != 0xff {
			continue
		}
		next := data[i+1]
		if next == 0x00 || (next >= 0xd0 && next <= 0xd7) {
			i++ // stuffed byte or RSTn, part of the scan
			continue
		}
		if next == jpegMarkerEOI {
			return i, nil
		}
		return 0, fmt.Errorf("unexpected marker 0x%02x inside scan", next)
	}
	return 0, fmt.Errorf("missing EOI marker")
}
