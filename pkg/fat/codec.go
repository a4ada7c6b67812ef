package fat

import "encoding/binary"

func encodeHeader(dst []byte, count uint32) bool {
	if len(dst) < HeaderSize {
		return false
	}
	copy(dst[0:4], Magic)
	binary.BigEndian.PutUint32(dst[4:8], count)
	return true
}

func decodeArch(src []byte) (Arch, error) {
	if len(src) < ArchSize {
		return Arch{}, ErrTruncatedHeader
	}
	fam, err := DecodeCPUFamily([4]byte(src[0:4]))
	if err != nil {
		return Arch{}, err
	}
	return Arch{
		Family:  fam,
		Subtype: binary.BigEndian.Uint32(src[4:8]),
		Offset:  binary.BigEndian.Uint32(src[8:12]),
		Size:    binary.BigEndian.Uint32(src[12:16]),
		Align:   Align(binary.BigEndian.Uint32(src[16:20])),
	}, nil
}

func encodeArch(dst []byte, a Arch) bool {
	if len(dst) < ArchSize {
		return false
	}
	fam := a.Family.Bytes()
	copy(dst[0:4], fam[:])
	binary.BigEndian.PutUint32(dst[4:8], a.Subtype)
	binary.BigEndian.PutUint32(dst[8:12], a.Offset)
	binary.BigEndian.PutUint32(dst[12:16], a.Size)
	binary.BigEndian.PutUint32(dst[16:20], uint32(a.Align))
	return true
}
