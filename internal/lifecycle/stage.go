package lifecycle

import "fmt"

// Stage is a point in the build lifecycle the plugin can attach to.
type Stage int

const (
	// StageBeforeHTML fires before the HTML plugin builds its asset tags.
	StageBeforeHTML Stage = iota
	// StageAlterTags fires with the head and body tag groups in place.
	StageAlterTags
	// StageAfterHTML fires with the rendered document.
	StageAfterHTML
	// StageEmit fires when the compiler is about to write the assets.
	StageEmit
)

var stageNames = [...]string{
	StageBeforeHTML: "beforeHtml",
	StageAlterTags:  "alterTags",
	StageAfterHTML:  "afterHtml",
	StageEmit:       "emit",
}

// String returns the stage name used in logs and metrics.
func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return stageNames[s]
}

// Stages returns every stage in firing order.
func Stages() []Stage {
	return []Stage{StageBeforeHTML, StageAlterTags, StageAfterHTML, StageEmit}
}

// htmlStage reports whether s is fired by the HTML plugin.
func (s Stage) htmlStage() bool {
	return s >= StageBeforeHTML && s <= StageAfterHTML
}
