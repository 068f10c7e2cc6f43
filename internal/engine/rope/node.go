package rope

import "strings"

// Tree structure constants
const (
	// MinChildren is the minimum children per internal node (except root).
	MinChildren = 4

	// MaxChildren is the maximum children per internal node before splitting.
	MaxChildren = 8

	// MaxChunksPerLeaf is the maximum chunks in a leaf node.
	MaxChunksPerLeaf = 4
)

// node is a node in the rope B+ tree. Leaf nodes (height 0) hold text
// chunks; internal nodes hold child references with cached summaries so
// char, byte and line seeks all run in O(log n).
type node struct {
	height  uint8
	summary TextSummary

	// Internal node fields (height > 0)
	children       []*node
	childSummaries []TextSummary

	// Leaf node fields (height == 0)
	chunks []Chunk
}

func newLeafNode() *node {
	return &node{
		height: 0,
		chunks: make([]Chunk, 0, MaxChunksPerLeaf),
	}
}

func newLeafNodeWithChunks(chunks []Chunk) *node {
	n := &node{
		height: 0,
		chunks: chunks,
	}
	n.recomputeSummary()
	return n
}

func newInternalNode(children []*node) *node {
	if len(children) == 0 {
		return newLeafNode()
	}

	height := children[0].height + 1
	summaries := make([]TextSummary, len(children))
	var total TextSummary

	for i, child := range children {
		summaries[i] = child.summary
		total = total.Add(child.summary)
	}

	return &node{
		height:         height,
		summary:        total,
		children:       children,
		childSummaries: summaries,
	}
}

func (n *node) isLeaf() bool {
	return n.height == 0
}

func (n *node) lenBytes() int {
	return n.summary.Bytes
}

func (n *node) recomputeSummary() {
	if n.isLeaf() {
		n.summary = TextSummary{Flags: FlagASCII}
		for _, chunk := range n.chunks {
			n.summary = n.summary.Add(chunk.Summary())
		}
		return
	}

	n.summary = TextSummary{Flags: FlagASCII}
	n.childSummaries = make([]TextSummary, len(n.children))
	for i, child := range n.children {
		n.childSummaries[i] = child.summary
		n.summary = n.summary.Add(child.summary)
	}
}

func (n *node) clone() *node {
	if n.isLeaf() {
		chunks := make([]Chunk, len(n.chunks))
		copy(chunks, n.chunks)
		return &node{
			height:  0,
			summary: n.summary,
			chunks:  chunks,
		}
	}

	children := make([]*node, len(n.children))
	copy(children, n.children)
	summaries := make([]TextSummary, len(n.childSummaries))
	copy(summaries, n.childSummaries)

	return &node{
		height:         n.height,
		summary:        n.summary,
		children:       children,
		childSummaries: summaries,
	}
}

func (n *node) appendTo(sb *strings.Builder) {
	if n.isLeaf() {
		for _, chunk := range n.chunks {
			sb.WriteString(chunk.String())
		}
		return
	}

	for _, child := range n.children {
		child.appendTo(sb)
	}
}

// textInRange extracts text in the byte range [start, end).
func (n *node) textInRange(start, end int) string {
	if start >= end || start >= n.lenBytes() {
		return ""
	}
	if end > n.lenBytes() {
		end = n.lenBytes()
	}

	var sb strings.Builder
	sb.Grow(end - start)
	n.appendRange(&sb, start, end)
	return sb.String()
}

func (n *node) appendRange(sb *strings.Builder, start, end int) {
	if start >= end {
		return
	}

	if n.isLeaf() {
		offset := 0
		for _, chunk := range n.chunks {
			chunkEnd := offset + chunk.Len()

			if chunkEnd <= start {
				offset = chunkEnd
				continue
			}
			if offset >= end {
				break
			}

			sliceStart := 0
			if start > offset {
				sliceStart = start - offset
			}
			sliceEnd := chunk.Len()
			if end < chunkEnd {
				sliceEnd = end - offset
			}

			sb.WriteString(chunk.String()[sliceStart:sliceEnd])
			offset = chunkEnd
		}
		return
	}

	offset := 0
	for i, child := range n.children {
		childLen := n.childSummaries[i].Bytes
		childEnd := offset + childLen

		if childEnd <= start {
			offset = childEnd
			continue
		}
		if offset >= end {
			break
		}

		childStart := 0
		if start > offset {
			childStart = start - offset
		}
		childEndAdj := childLen
		if end < childEnd {
			childEndAdj = end - offset
		}

		child.appendRange(sb, childStart, childEndAdj)
		offset = childEnd
	}
}

// charToByte converts a char offset within this subtree to a byte offset.
func (n *node) charToByte(chars int) int {
	if chars <= 0 {
		return 0
	}
	if chars >= n.summary.Chars {
		return n.summary.Bytes
	}

	if n.isLeaf() {
		bytes := 0
		for _, chunk := range n.chunks {
			cs := chunk.summary.Chars
			if chars < cs {
				return bytes + charToByteInString(chunk.data, chars)
			}
			chars -= cs
			bytes += chunk.Len()
			if chars == 0 {
				return bytes
			}
		}
		return bytes
	}

	bytes := 0
	for i, s := range n.childSummaries {
		if chars < s.Chars {
			return bytes + n.children[i].charToByte(chars)
		}
		chars -= s.Chars
		bytes += s.Bytes
		if chars == 0 {
			return bytes
		}
	}
	return bytes
}

// byteToChar converts a byte offset within this subtree to a char offset.
// The offset must lie on a rune boundary.
func (n *node) byteToChar(b int) int {
	if b <= 0 {
		return 0
	}
	if b >= n.summary.Bytes {
		return n.summary.Chars
	}

	if n.isLeaf() {
		chars := 0
		for _, chunk := range n.chunks {
			if b < chunk.Len() {
				return chars + byteToCharInString(chunk.data, b)
			}
			b -= chunk.Len()
			chars += chunk.summary.Chars
			if b == 0 {
				return chars
			}
		}
		return chars
	}

	chars := 0
	for i, s := range n.childSummaries {
		if b < s.Bytes {
			return chars + n.children[i].byteToChar(b)
		}
		b -= s.Bytes
		chars += s.Chars
		if b == 0 {
			return chars
		}
	}
	return chars
}

// nthNewlineEnd returns the byte offset just past the nth newline
// (1-indexed) in this subtree. The caller must ensure n newlines exist.
func (n *node) nthNewlineEnd(k int) int {
	if n.isLeaf() {
		bytes := 0
		for _, chunk := range n.chunks {
			if k <= chunk.summary.Lines {
				return bytes + FindNthNewline(chunk.data, k) + 1
			}
			k -= chunk.summary.Lines
			bytes += chunk.Len()
		}
		return bytes
	}

	bytes := 0
	for i, s := range n.childSummaries {
		if k <= s.Lines {
			return bytes + n.children[i].nthNewlineEnd(k)
		}
		k -= s.Lines
		bytes += s.Bytes
	}
	return bytes
}

// newlinesBefore counts newlines in the byte range [0, b).
func (n *node) newlinesBefore(b int) int {
	if b <= 0 {
		return 0
	}
	if b >= n.summary.Bytes {
		return n.summary.Lines
	}

	if n.isLeaf() {
		lines := 0
		for _, chunk := range n.chunks {
			if b < chunk.Len() {
				return lines + CountLines(chunk.data[:b])
			}
			b -= chunk.Len()
			lines += chunk.summary.Lines
			if b == 0 {
				return lines
			}
		}
		return lines
	}

	lines := 0
	for i, s := range n.childSummaries {
		if b < s.Bytes {
			return lines + n.children[i].newlinesBefore(b)
		}
		b -= s.Bytes
		lines += s.Lines
		if b == 0 {
			return lines
		}
	}
	return lines
}

// split splits the node at the given byte offset.
// Left contains [0, offset), right contains [offset, end).
func (n *node) split(offset int) (*node, *node) {
	if offset <= 0 {
		return newLeafNode(), n.clone()
	}
	if offset >= n.lenBytes() {
		return n.clone(), newLeafNode()
	}

	if n.isLeaf() {
		return n.splitLeaf(offset)
	}
	return n.splitInternal(offset)
}

func (n *node) splitLeaf(offset int) (*node, *node) {
	var leftChunks, rightChunks []Chunk
	currentOffset := 0

	for _, chunk := range n.chunks {
		chunkLen := chunk.Len()

		switch {
		case currentOffset+chunkLen <= offset:
			leftChunks = append(leftChunks, chunk)
		case currentOffset >= offset:
			rightChunks = append(rightChunks, chunk)
		default:
			left, right := chunk.Split(offset - currentOffset)
			if !left.IsEmpty() {
				leftChunks = append(leftChunks, left)
			}
			if !right.IsEmpty() {
				rightChunks = append(rightChunks, right)
			}
		}
		currentOffset += chunkLen
	}

	return newLeafNodeWithChunks(leftChunks), newLeafNodeWithChunks(rightChunks)
}

func (n *node) splitInternal(offset int) (*node, *node) {
	var leftChildren, rightChildren []*node
	currentOffset := 0

	for i, child := range n.children {
		childLen := n.childSummaries[i].Bytes

		switch {
		case currentOffset+childLen <= offset:
			leftChildren = append(leftChildren, child)
		case currentOffset >= offset:
			rightChildren = append(rightChildren, child)
		default:
			leftChild, rightChild := child.split(offset - currentOffset)
			if leftChild.lenBytes() > 0 {
				leftChildren = append(leftChildren, leftChild)
			}
			if rightChild.lenBytes() > 0 {
				rightChildren = append(rightChildren, rightChild)
			}
		}
		currentOffset += childLen
	}

	return buildNodeFromChildren(leftChildren), buildNodeFromChildren(rightChildren)
}

// buildNodeFromChildren creates a balanced tree from a list of child nodes.
func buildNodeFromChildren(children []*node) *node {
	if len(children) == 0 {
		return newLeafNode()
	}
	if len(children) == 1 {
		return children[0]
	}
	if len(children) <= MaxChildren {
		return newInternalNode(children)
	}

	var parents []*node
	for i := 0; i < len(children); i += MaxChildren {
		end := i + MaxChildren
		if end > len(children) {
			end = len(children)
		}
		parents = append(parents, newInternalNode(children[i:end]))
	}

	return buildNodeFromChildren(parents)
}

// concat concatenates two nodes.
func concat(left, right *node) *node {
	if left == nil || left.lenBytes() == 0 {
		if right == nil {
			return newLeafNode()
		}
		return right
	}
	if right == nil || right.lenBytes() == 0 {
		return left
	}

	if left.isLeaf() && right.isLeaf() {
		return concatLeaves(left, right)
	}

	// Bring to same height by wrapping the shorter one.
	for left.height < right.height {
		left = newInternalNode([]*node{left})
	}
	for right.height < left.height {
		right = newInternalNode([]*node{right})
	}

	return mergeNodes(left, right)
}

func concatLeaves(left, right *node) *node {
	totalChunks := len(left.chunks) + len(right.chunks)

	if totalChunks <= MaxChunksPerLeaf {
		chunks := make([]Chunk, 0, totalChunks)
		chunks = append(chunks, left.chunks...)
		chunks = append(chunks, right.chunks...)
		return newLeafNodeWithChunks(chunks)
	}

	return newInternalNode([]*node{left.clone(), right.clone()})
}

func mergeNodes(left, right *node) *node {
	if left.isLeaf() {
		return concatLeaves(left, right)
	}

	allChildren := make([]*node, 0, len(left.children)+len(right.children))
	allChildren = append(allChildren, left.children...)
	allChildren = append(allChildren, right.children...)

	if len(allChildren) <= MaxChildren {
		return newInternalNode(allChildren)
	}

	return buildNodeFromChildren(allChildren)
}
