package monitor

import (
	"bufio"
	"io"
	"strings"
)

// lineReader 只交付完整行。文件末尾没有换行的半截行不消费，
// 偏移量停在行首，等 bot 把这行写完下一轮再读。
type lineReader struct {
	r *bufio.Reader
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{r: bufio.NewReader(r)}
}

// next 返回一行内容（去掉行尾换行）和这一行占的字节数
func (l *lineReader) next() (string, int64, error) {
	line, err := l.r.ReadString('\n')
	if err != nil {
		// 半截行，留到下次
		return "", 0, io.EOF
	}
	n := int64(len(line))
	return strings.TrimRight(line, "\r\n"), n, nil
}
