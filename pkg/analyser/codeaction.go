package analyser

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/hangyav/textlsp-go/pkg/document"
)

func fromProtocolRange(r protocol.Range) document.Range {
	return document.Range{
		Start: document.Position{Line: r.Start.Line, Character: r.Start.Character},
		End:   document.Position{Line: r.End.Line, Character: r.End.Character},
	}
}

func toProtocolRange(r document.Range) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: r.Start.Line, Character: r.Start.Character},
		End:   protocol.Position{Line: r.End.Line, Character: r.End.Character},
	}
}

// CodeActionItem pairs a protocol.CodeAction with the document version it
// was computed against. The version could live on a
// `VersionedTextDocumentIdentifier` inside the action's WorkspaceEdit,
// but actions here only ever build `WorkspaceEdit.Changes` (the plain
// URI-keyed map form), never `DocumentChanges`. Rather than guess at an
// unexercised union-type shape, the version is tracked here directly
// alongside the action. It is not written into Action, so a published
// protocol.CodeAction carries no document version.
type CodeActionItem struct {
	Action  protocol.CodeAction
	Version int32
}

// RewriteVersion returns a copy of item whose Version is set to the given
// document version; the stored item and item.Action are left unchanged.
func RewriteVersion(item CodeActionItem, version int32) CodeActionItem {
	item.Version = version
	return item
}

// DiagnosticRangeAccessor adapts protocol.Diagnostic to RangeAccessor.
var DiagnosticRangeAccessor = RangeAccessor[*protocol.Diagnostic]{
	Get: func(d *protocol.Diagnostic) document.Range { return fromProtocolRange(d.Range) },
	Set: func(d *protocol.Diagnostic, r document.Range) *protocol.Diagnostic {
		d.Range = toProtocolRange(r)
		return d
	},
}

// CodeActionRangeAccessor adapts CodeActionItem to RangeAccessor, reading
// and writing the range of the item's sole TextEdit.
var CodeActionRangeAccessor = RangeAccessor[*CodeActionItem]{
	Get: func(c *CodeActionItem) document.Range {
		for _, edits := range c.Action.Edit.Changes {
			if len(edits) > 0 {
				return fromProtocolRange(edits[0].Range)
			}
		}
		return document.Range{}
	},
	Set: func(c *CodeActionItem, r document.Range) *CodeActionItem {
		for uri, edits := range c.Action.Edit.Changes {
			if len(edits) > 0 {
				edits[0].Range = toProtocolRange(r)
				c.Action.Edit.Changes[uri] = edits
			}
		}
		return c
	},
}
