package services

import (
	"context"
	"fmt"

	"insynchub/dto"

	"cloud.google.com/go/recaptchaenterprise/v2/apiv1/recaptchaenterprisepb"
	"github.com/googleapis/gax-go/v2"
	"go.uber.org/zap"
)

// AssessmentClient is the subset of the reCAPTCHA Enterprise client used
// here.
type AssessmentClient interface {
	CreateAssessment(ctx context.Context, req *recaptchaenterprisepb.CreateAssessmentRequest, opts ...gax.CallOption) (*recaptchaenterprisepb.Assessment, error)
}

type CaptchaService struct {
	client    AssessmentClient
	projectID string
	siteKey   string
	log       *zap.Logger
}

func NewCaptchaService(client AssessmentClient, projectID, siteKey string, log *zap.Logger) *CaptchaService {
	return &CaptchaService{client: client, projectID: projectID, siteKey: siteKey, log: log}
}

// Assess scores a reCAPTCHA token. A nil result with a nil error means the
// token was rejected.
func (s *CaptchaService) Assess(ctx context.Context, token, action, userIP, userAgent string) (*dto.AssessmentResult, error) {
	req := &recaptchaenterprisepb.CreateAssessmentRequest{
		Parent: fmt.Sprintf("projects/%s", s.projectID),
		Assessment: &recaptchaenterprisepb.Assessment{
			Event: &recaptchaenterprisepb.Event{
				Token:         token,
				SiteKey:       s.siteKey,
				UserIpAddress: userIP,
				UserAgent:     userAgent,
			},
		},
	}

	response, err := s.client.CreateAssessment(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create assessment: %w", err)
	}

	props := response.GetTokenProperties()
	if props == nil || !props.GetValid() {
		s.log.Info("captcha token invalid",
			zap.String("reason", props.GetInvalidReason().String()),
		)
		return nil, nil
	}
	if action != "" && props.GetAction() != action {
		s.log.Info("captcha action mismatch",
			zap.String("expected", action),
			zap.String("got", props.GetAction()),
		)
		return nil, nil
	}

	result := &dto.AssessmentResult{Action: props.GetAction()}
	if risk := response.GetRiskAnalysis(); risk != nil {
		result.Score = risk.GetScore()
		for _, reason := range risk.GetReasons() {
			result.Reasons = append(result.Reasons, reason.String())
		}
	}
	return result, nil
}
