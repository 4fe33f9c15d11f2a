package statistic

import "fmt"

func redisKeyStandings(challengeID string) string {
	return fmt.Sprintf("standings:%s", challengeID)
}
