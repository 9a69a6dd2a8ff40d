package server

import (
	"log/slog"

	"github.com/guilhermeadsjss/Progresso-da-parada/internal/loader"
	"github.com/guilhermeadsjss/Progresso-da-parada/internal/model"
	"github.com/guilhermeadsjss/Progresso-da-parada/internal/store"
)

// newHistoryRecorder 将每次真正的加载写入加载历史，并裁剪到最近 keep 条。
// 写入失败只记录日志，不影响数据展示
func newHistoryRecorder(st *store.Store, keep int, logger *slog.Logger) func(loader.Snapshot) {
	return func(snap loader.Snapshot) {
		entry := loadLogFromSnapshot(snap)
		if _, err := st.InsertLoadLog(entry); err != nil {
			logger.Error("record load history failed", "error", err)
			return
		}
		if err := st.PruneLoadLogs(keep); err != nil {
			logger.Error("prune load history failed", "error", err)
		}
	}
}

func loadLogFromSnapshot(snap loader.Snapshot) model.LoadLog {
	entry := model.LoadLog{
		Status:   loader.Status(snap.Err),
		Duration: snap.Elapsed,
		LoadedAt: snap.LoadedAt,
	}
	if snap.Err != nil {
		entry.Error = snap.Err.Error()
	}
	if t := snap.Table; t != nil {
		entry.LoadID = t.LoadID
		entry.SourcePath = t.SourcePath
		entry.Sheet = t.Sheet
		entry.Rows = t.Len()
		entry.Mapping = t.Mapping
	}
	return entry
}
