package spu

import (
	"github.com/rtiangha/duckstation/emu/log"
	"github.com/rtiangha/duckstation/hw/hwdefs"
)

// ram is the SPU's 512 KiB sound RAM: ADPCM sample data, loop points,
// and capture buffers all live in this one flat, wrap-masked address
// space.
type ram struct {
	data [hwdefs.RAMSize]byte
}

// LoadRAM copies data into sound RAM starting at address 0, for tools
// that seed the SPU from a captured RAM dump rather than driving it
// through the transfer-data register.
func (s *SPU) LoadRAM(data []byte) {
	copy(s.ram.data[:], data)
}

func (r *ram) read16(addr uint32) uint16 {
	addr &= hwdefs.RAMMask
	lo := r.data[addr]
	hi := r.data[(addr+1)&hwdefs.RAMMask]
	return uint16(lo) | uint16(hi)<<8
}

func (r *ram) write16(addr uint32, val uint16) {
	addr &= hwdefs.RAMMask
	r.data[addr] = byte(val)
	r.data[(addr+1)&hwdefs.RAMMask] = byte(val >> 8)
}

// ramTransferRead/Write are the single-halfword accessors backing the
// transfer-data register (PIO path) and the slow per-halfword DMA
// fallback near a wrap boundary, exactly mirroring original_source's
// RAMTransferRead/RAMTransferWrite.
func (s *SPU) ramTransferRead() uint16 {
	val := s.ram.read16(s.transferAddress)
	s.transferAddress = (s.transferAddress + 2) & hwdefs.RAMMask
	return val
}

func (s *SPU) ramTransferWrite(val uint16) {
	s.ram.write16(s.transferAddress, val)
	s.transferAddress = (s.transferAddress + 2) & hwdefs.RAMMask
}

func (s *SPU) updateDMARequest() {
	mode := s.transferMode()
	request := mode == TransferDMAWrite || mode == TransferDMARead
	if s.dma != nil {
		s.dma.RequestChanged(request)
	}
}

// DMARead pulls word_count 32-bit words out of sound RAM starting at
// the current transfer address, taking the bulk memcpy-equivalent
// fast path when the whole transfer stays within the wrap boundary,
// and falling back to halfword-at-a-time reads (through
// ramTransferRead, so the transfer address advances identically)
// otherwise. Mirrors original_source's DMARead.
func (s *SPU) DMARead(words []uint32) {
	span := uint32(len(words)) * 4
	if (s.transferAddress &^ hwdefs.RAMMask) != ((s.transferAddress + span) &^ hwdefs.RAMMask) {
		for i := range words {
			lsb := s.ramTransferRead()
			msb := s.ramTransferRead()
			words[i] = uint32(lsb) | uint32(msb)<<16
		}
		return
	}

	for i := range words {
		off := s.transferAddress + uint32(i)*4
		words[i] = uint32(s.ram.data[off]) |
			uint32(s.ram.data[off+1])<<8 |
			uint32(s.ram.data[off+2])<<16 |
			uint32(s.ram.data[off+3])<<24
	}
	s.transferAddress = (s.transferAddress + span) & hwdefs.RAMMask
}

// DMAWrite is the write-direction counterpart of DMARead.
func (s *SPU) DMAWrite(words []uint32) {
	span := uint32(len(words)) * 4
	if (s.transferAddress &^ hwdefs.RAMMask) != ((s.transferAddress + span) &^ hwdefs.RAMMask) {
		for _, w := range words {
			s.ramTransferWrite(uint16(w))
			s.ramTransferWrite(uint16(w >> 16))
		}
		return
	}

	for i, w := range words {
		off := s.transferAddress + uint32(i)*4
		s.ram.data[off] = byte(w)
		s.ram.data[off+1] = byte(w >> 8)
		s.ram.data[off+2] = byte(w >> 16)
		s.ram.data[off+3] = byte(w >> 24)
	}
	s.transferAddress = (s.transferAddress + span) & hwdefs.RAMMask
}

// readADPCMBlock fetches the 16-byte compressed block at the given
// sample-RAM address (in 8-byte units, per original_source's
// VOICE_ADDRESS_SHIFT), raising the IRQ when IRQ9 is enabled and the
// latched IRQ address falls within this block.
func (s *SPU) readADPCMBlock(address uint16) adpcmBlock {
	ramAddress := (uint32(address) * 8) & hwdefs.RAMMask

	if s.irq9Enabled() && (s.IRQAddress.Value == address || s.IRQAddress.Value == address+1) {
		log.ModDMA.DebugZ("SPU IRQ at address").Hex32("addr", ramAddress).End()
		s.Status.Value |= 1
		s.setIRQ(true)
	}

	var block adpcmBlock
	block.shiftFilter = s.ram.data[ramAddress]
	block.flags = s.ram.data[(ramAddress+1)&hwdefs.RAMMask]
	for i := range block.data {
		block.data[i] = s.ram.data[(ramAddress+2+uint32(i))&hwdefs.RAMMask]
	}
	return block
}
