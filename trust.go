package gatewaynet

import (
	"fmt"
	"strings"
)

// Wildcard is the trusted proxy entry that trusts every peer.
const Wildcard = "*"

// EntryKind identifies the variant of a ProxyEntry.
type EntryKind int

const (
	// EntryWildcard trusts every peer.
	EntryWildcard EntryKind = iota + 1
	// EntryAddr trusts a single address by exact match after normalization.
	EntryAddr
	// EntryCIDR trusts every IPv4 address inside a block.
	EntryCIDR
)

// String returns the canonical text representation of k.
func (k EntryKind) String() string {
	switch k {
	case EntryWildcard:
		return "wildcard"
	case EntryAddr:
		return "addr"
	case EntryCIDR:
		return "cidr"
	default:
		return "unknown"
	}
}

// ProxyEntry is one parsed entry of a trusted proxy list.
type ProxyEntry struct {
	Kind EntryKind
	// Raw is the entry as configured, trimmed.
	Raw string
	// Addr is the normalized address for EntryAddr.
	Addr string
	// CIDR is the parsed block for EntryCIDR. Valid is false when the block
	// is malformed or IPv6; such entries never match.
	CIDR  CIDR
	Valid bool
}

// ParseProxyEntry classifies a single trusted proxy entry. Entries containing
// "/" are CIDR blocks; "*" is the wildcard; everything else is an address.
// It returns false only for blank entries.
func ParseProxyEntry(entry string) (ProxyEntry, bool) {
	raw := strings.TrimSpace(entry)
	if raw == "" {
		return ProxyEntry{}, false
	}

	switch {
	case raw == Wildcard:
		return ProxyEntry{Kind: EntryWildcard, Raw: raw, Valid: true}, true
	case strings.Contains(raw, "/"):
		block, ok := ParseCIDR(raw)
		return ProxyEntry{Kind: EntryCIDR, Raw: raw, CIDR: block, Valid: ok}, true
	default:
		addr, _ := Normalize(raw)
		return ProxyEntry{Kind: EntryAddr, Raw: raw, Addr: addr, Valid: isIPLiteral(addr)}, true
	}
}

// matches reports whether the normalized peer address is covered by e.
func (e ProxyEntry) matches(peer string) bool {
	switch e.Kind {
	case EntryWildcard:
		return true
	case EntryCIDR:
		return e.Valid && e.CIDR.Contains(peer)
	case EntryAddr:
		return e.Addr != "" && e.Addr == peer
	default:
		return false
	}
}

// IsTrustedProxy reports whether peerIP is one of trustedProxies. Each entry
// is "*", an IPv4 CIDR block, or an address compared after normalization.
// An empty list trusts nothing. Malformed entries never match.
func IsTrustedProxy(peerIP string, trustedProxies []string) bool {
	peer, ok := Normalize(peerIP)
	if !ok || len(trustedProxies) == 0 {
		return false
	}

	for _, raw := range trustedProxies {
		entry, ok := ParseProxyEntry(raw)
		if ok && entry.matches(peer) {
			return true
		}
	}

	return false
}

// TrustedProxies is a precompiled trusted proxy list. The zero value trusts
// nothing. It is immutable and safe for concurrent use.
type TrustedProxies struct {
	entries  []ProxyEntry
	wildcard bool
	addrs    map[string]struct{}
	matcher  trustedProxyMatcher
}

// ParseTrustedProxies compiles a trusted proxy list. Contains on the result
// agrees with IsTrustedProxy on the same entries.
func ParseTrustedProxies(entries []string) TrustedProxies {
	tp := TrustedProxies{}
	if len(entries) == 0 {
		return tp
	}

	tp.entries = make([]ProxyEntry, 0, len(entries))
	var blocks []CIDR

	for _, raw := range entries {
		entry, ok := ParseProxyEntry(raw)
		if !ok {
			continue
		}
		tp.entries = append(tp.entries, entry)

		switch entry.Kind {
		case EntryWildcard:
			tp.wildcard = true
		case EntryCIDR:
			if entry.Valid {
				blocks = append(blocks, entry.CIDR)
			}
		case EntryAddr:
			if tp.addrs == nil {
				tp.addrs = make(map[string]struct{}, len(entries))
			}
			tp.addrs[entry.Addr] = struct{}{}
		}
	}

	tp.matcher = buildTrustedProxyMatcher(blocks)
	return tp
}

// Contains reports whether peerIP is trusted.
func (tp TrustedProxies) Contains(peerIP string) bool {
	if len(tp.entries) == 0 {
		return false
	}

	peer, ok := Normalize(peerIP)
	if !ok {
		return false
	}

	if tp.wildcard {
		return true
	}

	if _, ok := tp.addrs[peer]; ok {
		return true
	}

	if n, ok := parseIPv4Uint32(peer); ok {
		return tp.matcher.contains(n)
	}

	return false
}

// Len returns the number of non-blank entries.
func (tp TrustedProxies) Len() int {
	return len(tp.entries)
}

// Entries returns a copy of the parsed entries in configuration order.
func (tp TrustedProxies) Entries() []ProxyEntry {
	if tp.entries == nil {
		return nil
	}
	entries := make([]ProxyEntry, len(tp.entries))
	copy(entries, tp.entries)
	return entries
}

// ValidateTrustedProxies reports entries that can never match: malformed or
// IPv6 CIDR blocks and addresses that are not IP literals. Resolution itself
// treats such entries as non-matching; this helper lets configuration loaders
// surface them to operators.
func ValidateTrustedProxies(entries []string) error {
	for _, raw := range entries {
		entry, ok := ParseProxyEntry(raw)
		if !ok {
			return fmt.Errorf("trusted proxy entries cannot be blank")
		}
		if entry.Valid {
			continue
		}

		if entry.Kind == EntryCIDR {
			return fmt.Errorf("invalid trusted proxy CIDR %q (only IPv4 blocks are supported)", entry.Raw)
		}
		return fmt.Errorf("invalid trusted proxy address %q", entry.Raw)
	}

	return nil
}
