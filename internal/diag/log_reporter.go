package diag

import (
	"github.com/tliron/commonlog"

	"plsqldoc/internal/source"
)

// LogReporter mirrors diagnostics to a commonlog logger. Paths are resolved
// through the optional FileSet.
type LogReporter struct {
	Log   commonlog.Logger
	Files *source.FileSet
}

// NewLogReporter binds a reporter to the named logger.
func NewLogReporter(name string, files *source.FileSet) *LogReporter {
	return &LogReporter{Log: commonlog.GetLogger(name), Files: files}
}

func (r *LogReporter) Report(code Code, sev Severity, primary source.Span, msg string, _ []Note) {
	if r == nil || r.Log == nil {
		return
	}
	where := primary.Start.String()
	if r.Files != nil {
		if f := r.Files.Get(primary.File); f != nil {
			where = f.Path + ":" + where
		}
	}
	switch sev {
	case SevError:
		r.Log.Errorf("%s %s %s", where, code.ID(), msg)
	case SevWarning:
		r.Log.Warningf("%s %s %s", where, code.ID(), msg)
	default:
		r.Log.Infof("%s %s %s", where, code.ID(), msg)
	}
}
