package storage

import (
	"fmt"
	"time"

	"billboard-report/pkg/utils"
)

const keyPrefix = "billboards/"

// NewObjectKey names one uploaded image: billboards/<unix-millis>-<rand>.jpg for a
// single image, with -<index> appended when the submission carries several.
func NewObjectKey(now time.Time, index, total int) (string, error) {
	suffix, err := utils.RandomBase36(13)
	if err != nil {
		return "", fmt.Errorf("generate key suffix: %w", err)
	}

	key := fmt.Sprintf("%s%d-%s", keyPrefix, now.UnixMilli(), suffix)
	if total > 1 {
		key = fmt.Sprintf("%s-%d", key, index)
	}
	return key + ".jpg", nil
}
