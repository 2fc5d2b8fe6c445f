package model

type Assignment struct {
	ID       string `json:"id" db:"id"`
	Title    string `json:"title" db:"title"`
	Filename string `json:"filename" db:"filename"`
	FilePath string `json:"file_path" db:"file_path"`
	Ext      string `json:"ext" db:"ext"`
	Size     int64  `json:"size" db:"size"`
	Ctime    int64  `json:"ctime" db:"ctime"`
}
