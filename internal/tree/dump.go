package tree

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/xlab/treeprint"
)

// Dump renders the document as an indented tree for debugging
func Dump(d *Document) string {
	root := treeprint.NewWithRoot(fmt.Sprintf("document (%d pages, %d images)", len(d.Pages), len(d.Images)))
	for i, p := range d.Pages {
		br := root.AddMetaBranch(fmt.Sprintf("page %d", i+1),
			fmt.Sprintf("%s %s margin=%s %s", p.Size, p.Orientation, p.PageMargin, boxString(&p.Node)))
		for _, c := range p.Children {
			dumpNode(br, c)
		}
	}
	if len(d.Images) > 0 {
		hashes := make([]string, 0, len(d.Images))
		for h := range d.Images {
			hashes = append(hashes, h)
		}
		sort.Strings(hashes)
		br := root.AddBranch("images")
		for _, h := range hashes {
			br.AddMetaNode(h, d.Images[h].Src)
		}
	}
	return root.String()
}

func dumpNode(parent treeprint.Tree, n *Node) {
	label := n.Tag + " " + boxString(n)
	if n.Text != nil {
		label += " " + fmt.Sprintf("%q", shorten(*n.Text, 24))
	}
	if n.Src != "" {
		label += " src=" + n.Src
	}
	if len(n.Children) == 0 {
		parent.AddNode(label)
		return
	}
	br := parent.AddBranch(label)
	for _, c := range n.Children {
		dumpNode(br, c)
	}
}

func boxString(n *Node) string {
	return fmt.Sprintf("[%g,%g %gx%g]", n.Box.X, n.Box.Y, n.Box.Width, n.Box.Height)
}

func shorten(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max]) + "…"
}
