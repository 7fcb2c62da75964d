package ext

import "github.com/tliron/commonlog"

var log = commonlog.GetLogger("extensible.ext")
