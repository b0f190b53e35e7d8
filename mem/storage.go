package mem

import "errors"

// A Storage holds the data of the simulated memory.
//
// Data is kept in fixed-size units, allocated lazily. Address ranges that are
// never read or written cost no host memory.
type Storage struct {
	unitSize uint64
	capacity uint64
	data     map[uint64][]byte
}

// NewStorage creates a Storage with the given capacity in bytes.
func NewStorage(capacity uint64) *Storage {
	return &Storage{
		unitSize: 4096,
		capacity: capacity,
		data:     make(map[uint64][]byte),
	}
}

// Capacity returns the number of bytes the storage can hold.
func (s *Storage) Capacity() uint64 {
	return s.capacity
}

func (s *Storage) unitAt(address uint64) ([]byte, error) {
	if address > s.capacity {
		return nil, errors.New(
			"accessing physical address beyond the storage capacity")
	}

	baseAddr, _ := s.splitAddress(address)

	unit, ok := s.data[baseAddr]
	if !ok {
		unit = make([]byte, s.unitSize)
		s.data[baseAddr] = unit
	}

	return unit, nil
}

func (s *Storage) splitAddress(addr uint64) (baseAddr, inUnitAddr uint64) {
	inUnitAddr = addr % s.unitSize
	baseAddr = addr - inUnitAddr

	return baseAddr, inUnitAddr
}

// Read returns a copy of nBytes of data starting at the given address.
func (s *Storage) Read(address uint64, nBytes uint64) ([]byte, error) {
	res := make([]byte, nBytes)

	currAddr := address
	offset := uint64(0)

	for offset < nBytes {
		unit, err := s.unitAt(currAddr)
		if err != nil {
			return nil, err
		}

		baseAddr, inUnitAddr := s.splitAddress(currAddr)

		n := baseAddr + s.unitSize - currAddr
		if left := nBytes - offset; left < n {
			n = left
		}

		copy(res[offset:offset+n], unit[inUnitAddr:inUnitAddr+n])

		offset += n
		currAddr += n
	}

	return res, nil
}

// Write stores the given data starting at the given address.
func (s *Storage) Write(address uint64, data []byte) error {
	currAddr := address
	offset := uint64(0)

	for offset < uint64(len(data)) {
		unit, err := s.unitAt(currAddr)
		if err != nil {
			return err
		}

		baseAddr, inUnitAddr := s.splitAddress(currAddr)

		n := baseAddr + s.unitSize - currAddr
		if left := uint64(len(data)) - offset; left < n {
			n = left
		}

		copy(unit[inUnitAddr:inUnitAddr+n], data[offset:offset+n])

		offset += n
		currAddr += n
	}

	return nil
}
