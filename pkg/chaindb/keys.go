package chaindb

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Credentials identify a caller within one logical database.
type Credentials struct {
	Database string
	User     string
	Password string
}

// KeyScheme selects how access keys and contract ids are derived.
type KeyScheme int

const (
	// KeySchemeConcat hashes the plain concatenation of the inputs with
	// SHA-256. It is what deployed servers expect. Inputs split differently
	// can collide: ("ab","c") and ("a","bc") give the same key.
	KeySchemeConcat KeyScheme = iota
	// KeySchemeFramed prefixes every input with its length as a big-endian
	// uint32 and derives the key with HKDF-SHA256. Only usable against
	// servers that derive keys the same way.
	KeySchemeFramed
)

const (
	framedSalt       = "chaindb"
	infoAccessKey    = "chaindb access key v1"
	infoContractID   = "chaindb contract id v1"
	derivedKeyLength = 32
)

func (s KeyScheme) String() string {
	switch s {
	case KeySchemeConcat:
		return "concat"
	case KeySchemeFramed:
		return "framed"
	default:
		return fmt.Sprintf("KeyScheme(%d)", int(s))
	}
}

// ParseKeyScheme maps "concat" or "framed" to a KeyScheme.
func ParseKeyScheme(name string) (KeyScheme, error) {
	switch name {
	case "", "concat":
		return KeySchemeConcat, nil
	case "framed":
		return KeySchemeFramed, nil
	default:
		return KeySchemeConcat, fmt.Errorf("chaindb: unknown key scheme %q", name)
	}
}

// AccessKey derives the per-database access key for c.
func (s KeyScheme) AccessKey(c Credentials) string {
	return s.derive(infoAccessKey, c.Database, c.User, c.Password)
}

// ContractID derives the identifier of table within c's database.
func (s KeyScheme) ContractID(c Credentials, table string) string {
	return s.derive(infoContractID, c.Database, table, c.User, c.Password)
}

func (s KeyScheme) derive(info string, fields ...string) string {
	if s == KeySchemeFramed {
		return framedDigest(info, fields...)
	}
	return concatDigest(fields...)
}

// AccessKey returns the hex SHA-256 of database+user+password.
func AccessKey(database, user, password string) string {
	return concatDigest(database, user, password)
}

// ContractID returns the hex SHA-256 of database+table+user+password.
func ContractID(database, table, user, password string) string {
	return concatDigest(database, table, user, password)
}

func concatDigest(fields ...string) string {
	h := sha256.New()
	for _, f := range fields {
		io.WriteString(h, f)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func framedDigest(info string, fields ...string) string {
	secret := make([]byte, 0, 64)
	for _, f := range fields {
		secret = binary.BigEndian.AppendUint32(secret, uint32(len(f)))
		secret = append(secret, f...)
	}
	reader := hkdf.New(sha256.New, secret, []byte(framedSalt), []byte(info))
	key := make([]byte, derivedKeyLength)
	if _, err := io.ReadFull(reader, key); err != nil {
		// HKDF-SHA256 only fails past 255*32 bytes of output.
		panic(fmt.Sprintf("chaindb: hkdf: %v", err))
	}
	return hex.EncodeToString(key)
}
