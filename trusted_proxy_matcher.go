package gatewaynet

// trustedProxyMatcher is a binary prefix trie over IPv4 CIDR entries of a
// trusted proxy list. It answers the same question as evaluating IsInCIDR
// against every entry, in at most 32 steps.
type trustedProxyMatcher struct {
	initialized bool
	root        *prefixTrieNode
}

type prefixTrieNode struct {
	children [2]*prefixTrieNode
	terminal bool
}

func buildTrustedProxyMatcher(blocks []CIDR) trustedProxyMatcher {
	matcher := trustedProxyMatcher{}
	if len(blocks) == 0 {
		return matcher
	}

	matcher.initialized = true
	matcher.root = &prefixTrieNode{}

	for _, block := range blocks {
		insertPrefix(matcher.root, block.base, block.bits)
	}

	return matcher
}

func insertPrefix(root *prefixTrieNode, addr uint32, bits int) {
	node := root
	if bits == 0 {
		node.terminal = true
		return
	}

	for bitIndex := 0; bitIndex < bits; bitIndex++ {
		bit := addrBit(addr, bitIndex)
		child := node.children[bit]
		if child == nil {
			child = &prefixTrieNode{}
			node.children[bit] = child
		}
		node = child
	}

	node.terminal = true
}

func (m trustedProxyMatcher) contains(ip uint32) bool {
	if !m.initialized || m.root == nil {
		return false
	}

	node := m.root
	if node.terminal {
		return true
	}

	for bitIndex := range 32 {
		node = node.children[addrBit(ip, bitIndex)]
		if node == nil {
			return false
		}
		if node.terminal {
			return true
		}
	}

	return false
}

// addrBit returns bit bitIndex of addr counting from the most significant bit.
func addrBit(addr uint32, bitIndex int) int {
	return int(addr>>uint(31-bitIndex)) & 1
}
