package asm

// ExprTable interns expression texts. Equal texts share an index and
// indices count up from 0 in first-seen order.
type ExprTable struct {
	index map[string]int
	texts []string
}

func NewExprTable() *ExprTable {
	return &ExprTable{index: make(map[string]int)}
}

func (t *ExprTable) Intern(text string) int {
	if i, ok := t.index[text]; ok {
		return i
	}
	i := len(t.texts)
	t.index[text] = i
	t.texts = append(t.texts, text)
	return i
}

func (t *ExprTable) Text(i int) string { return t.texts[i] }

func (t *ExprTable) Len() int { return len(t.texts) }

func (t *ExprTable) Texts() []string {
	return append([]string(nil), t.texts...)
}
