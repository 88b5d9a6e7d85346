package firmware

import (
	"fmt"
	"time"

	"github.com/moffa90/go-pprog/eprom"
	"github.com/moffa90/go-pprog/protocol"
	"github.com/retroenv/retrogolib/log"
)

// Engine streams bulk writes and reads between the link and the chip.
type Engine struct {
	link   Link
	prog   *eprom.Programmer
	config *Config

	block [protocol.BlockMax]byte
}

func newEngine(l Link, prog *eprom.Programmer, config *Config) *Engine {
	return &Engine{link: l, prog: prog, config: config}
}

// BulkWrite runs a 'd' transfer against s. It acknowledges the command,
// then for every block of up to BlockMax bytes receives the data, echoes
// the XOR of what it received, programs every byte and echoes the XOR of
// what it read back. The host may abort after either echo. Progress only
// advances once both echoes of a block have been accepted.
//
// The returned error is non-nil only when the link fails.
func (e *Engine) BulkWrite(s *Session) (report TransferReport, err error) {
	start := time.Now()
	report = TransferReport{Kind: KindWrite, Base: s.BaseAddress, Length: s.TransferLength}

	if err := e.link.SendByte(protocol.Ack); err != nil {
		return report, fmt.Errorf("acknowledge write: %w", err)
	}

	b := e.prog.Bus()
	b.EnterWriteMode()
	b.ChipEnable()
	b.OutputDisable()
	s.Progress = 0

	var crc protocol.CRC16
	defer func() {
		b.ChipDisable()
		b.EnterReadMode()
		report.Progress = s.Progress
		report.CRC16 = crc.Sum()
		report.Elapsed = time.Since(start)
		if err == nil {
			e.report(report)
		}
	}()

	for s.Progress < s.TransferLength {
		n := min(protocol.BlockMax, int(s.Remaining()))
		block := e.block[:n]

		var crcIn protocol.XOR
		for i := range block {
			v, err := e.link.ReceiveByte()
			if err != nil {
				return report, fmt.Errorf("receive block byte %d of %d: %w", i, n, err)
			}
			block[i] = v
			crcIn.Add(v)
		}

		e.logDebug("Block received",
			log.Hex("address", s.Address()),
			log.Int("size", n),
			log.Hex("crc_in", crcIn.Sum()))

		proceed, err := e.checkpoint(crcIn.Sum())
		if err != nil {
			return report, fmt.Errorf("receive checksum handshake: %w", err)
		}
		if !proceed {
			e.logInfo("Write aborted by host after receive checksum", log.Hex("address", s.Address()))
			report.Result = protocol.ResultAborted
			return report, nil
		}

		var crcOut protocol.XOR
		for i, v := range block {
			addr := s.Address() + uint16(i)
			verified, attempts := e.prog.Program(addr, v)
			if verified != v {
				e.logError("Byte did not verify",
					log.Hex("address", addr),
					log.Hex("expected", v),
					log.Hex("got", verified),
					log.Int("attempts", attempts))
				report.Exhausted = append(report.Exhausted, addr)
			}
			crcOut.Add(verified)
			crc.Add(verified)
		}

		proceed, err = e.checkpoint(crcOut.Sum())
		if err != nil {
			return report, fmt.Errorf("write checksum handshake: %w", err)
		}
		if !proceed {
			e.logInfo("Write aborted by host after write checksum", log.Hex("address", s.Address()))
			report.Result = protocol.ResultAborted
			return report, nil
		}

		s.Progress += uint16(n)
		report.Blocks++
	}

	if len(report.Exhausted) > 0 {
		report.Result = protocol.ResultVerifyExhausted
	}
	return report, nil
}

// checkpoint sends [Ack][sum] and reports whether the host's continuation
// byte lets the transfer proceed.
func (e *Engine) checkpoint(sum byte) (bool, error) {
	if err := e.link.SendByte(protocol.Ack); err != nil {
		return false, err
	}
	if err := e.link.SendByte(sum); err != nil {
		return false, err
	}
	cont, err := e.link.ReceiveByte()
	if err != nil {
		return false, err
	}
	return cont != protocol.Abort, nil
}

// BulkRead runs an 'r' transfer against s: every byte from the base address
// on is read and sent, followed by the XOR of all of them. There is no
// acknowledgment before the data.
func (e *Engine) BulkRead(s *Session) (TransferReport, error) {
	start := time.Now()
	report := TransferReport{Kind: KindRead, Base: s.BaseAddress, Length: s.TransferLength}

	b := e.prog.Bus()
	b.EnterReadMode()
	b.ChipEnable()
	s.Progress = 0

	var (
		sum protocol.XOR
		crc protocol.CRC16
		err error
	)
	for s.Progress < s.TransferLength {
		v := e.prog.Read(s.Address())
		sum.Add(v)
		crc.Add(v)
		if err = e.link.SendByte(v); err != nil {
			err = fmt.Errorf("send byte %d of %d: %w", s.Progress, s.TransferLength, err)
			break
		}
		s.Progress++
	}
	b.ChipDisable()

	report.Progress = s.Progress
	report.CRC16 = crc.Sum()
	if err != nil {
		return report, err
	}

	if err := e.link.SendByte(sum.Sum()); err != nil {
		return report, fmt.Errorf("send read checksum: %w", err)
	}

	report.Elapsed = time.Since(start)
	e.logDebug("Read complete",
		log.Hex("address", s.BaseAddress),
		log.Int("length", int(s.TransferLength)),
		log.Hex("crc", sum.Sum()))
	e.report(report)
	return report, nil
}

// ReadNext runs a '+' transfer: one byte at base+progress is read and sent,
// and progress advances by one. Progress is not bounded by the length.
func (e *Engine) ReadNext(s *Session) (TransferReport, error) {
	start := time.Now()
	report := TransferReport{Kind: KindReadNext, Base: s.BaseAddress, Length: s.TransferLength}

	b := e.prog.Bus()
	b.EnterReadMode()
	b.ChipEnable()

	v := e.prog.Read(s.Address())
	err := e.link.SendByte(v)
	if err == nil {
		s.Progress++
	}
	b.ChipDisable()

	report.Progress = s.Progress
	report.CRC16 = protocol.CalculateCRC16([]byte{v})
	if err != nil {
		return report, fmt.Errorf("send byte: %w", err)
	}

	report.Elapsed = time.Since(start)
	e.report(report)
	return report, nil
}

func (e *Engine) report(r TransferReport) {
	if e.config.ReportCallback != nil {
		e.config.ReportCallback(r)
	}
}

func (e *Engine) logDebug(msg string, fields ...log.Field) {
	if e.config.Logger != nil {
		e.config.Logger.Debug(msg, fields...)
	}
}

func (e *Engine) logInfo(msg string, fields ...log.Field) {
	if e.config.Logger != nil {
		e.config.Logger.Info(msg, fields...)
	}
}

func (e *Engine) logError(msg string, fields ...log.Field) {
	if e.config.Logger != nil {
		e.config.Logger.Error(msg, fields...)
	}
}
