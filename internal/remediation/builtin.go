package remediation

import "github.com/voleary/stratus/internal/models"

// builtinTable returns the default remediation guidance shipped with
// stratus. Keys are provider/check_id.
func builtinTable() map[string][]models.RemediationEntry {
	table := make(map[string][]models.RemediationEntry)

	s3Encryption := []models.RemediationEntry{
		{
			Format:  FormatCLI,
			Summary: "Enable default SSE-S3 encryption on the bucket",
			Command: `aws s3api put-bucket-encryption --bucket {resource} --server-side-encryption-configuration '{"Rules":[{"ApplyServerSideEncryptionByDefault":{"SSEAlgorithm":"AES256"}}]}'`,
		},
		{
			Format:  FormatTerraform,
			Summary: "Declare default encryption in Terraform",
			Snippet: `resource "aws_s3_bucket_server_side_encryption_configuration" "this" {
  bucket = "{resource}"
  rule {
    apply_server_side_encryption_by_default {
      sse_algorithm = "AES256"
    }
  }
}`,
		},
		{
			Format:  FormatDoc,
			Summary: "Amazon S3 default encryption documentation",
			URL:     "https://docs.aws.amazon.com/AmazonS3/latest/userguide/default-bucket-encryption.html",
		},
	}
	table["aws/s3_bucket_default_encryption"] = s3Encryption
	table["aws/s3_bucket_server_side_encryption_enabled"] = s3Encryption

	publicAccessBlock := []models.RemediationEntry{
		{
			Format:  FormatCLI,
			Summary: "Block all public access on the bucket",
			Command: `aws s3api put-public-access-block --bucket {resource} --public-access-block-configuration BlockPublicAcls=true,IgnorePublicAcls=true,BlockPublicPolicy=true,RestrictPublicBuckets=true`,
		},
		{
			Format:  FormatTerraform,
			Summary: "Declare the public access block in Terraform",
			Snippet: `resource "aws_s3_bucket_public_access_block" "this" {
  bucket                  = "{resource}"
  block_public_acls       = true
  block_public_policy     = true
  ignore_public_acls      = true
  restrict_public_buckets = true
}`,
		},
	}
	table["aws/s3_bucket_public_access"] = publicAccessBlock
	table["aws/s3_bucket_level_public_access_block"] = publicAccessBlock
	table["aws/s3_bucket_policy_public_write_access"] = publicAccessBlock
	table["aws/s3_bucket_acl_prohibited"] = publicAccessBlock

	versioning := []models.RemediationEntry{
		{
			Format:  FormatCLI,
			Summary: "Enable bucket versioning",
			Command: `aws s3api put-bucket-versioning --bucket {resource} --versioning-configuration Status=Enabled`,
		},
		{
			Format:  FormatTerraform,
			Summary: "Declare versioning in Terraform",
			Snippet: `resource "aws_s3_bucket_versioning" "this" {
  bucket = "{resource}"
  versioning_configuration {
    status = "Enabled"
  }
}`,
		},
	}
	table["aws/s3_bucket_versioning_enabled"] = versioning
	table["aws/s3_bucket_no_mfa_delete"] = versioning

	table["aws/s3_bucket_logging_enabled"] = []models.RemediationEntry{
		{
			Format:  FormatConsole,
			Summary: "Enable server access logging (needs a target bucket)",
			Steps: []string{
				"Open the S3 console and select the bucket",
				"Under Properties, edit Server access logging",
				"Choose a target bucket in the same region and a log prefix",
				"Save changes",
			},
		},
		{
			Format:  FormatDoc,
			Summary: "S3 server access logging documentation",
			URL:     "https://docs.aws.amazon.com/AmazonS3/latest/userguide/ServerLogs.html",
		},
	}

	table["aws/accessanalyzer_enabled"] = []models.RemediationEntry{
		{
			Format:  FormatCLI,
			Summary: "Create an account-level IAM Access Analyzer",
			Command: `aws accessanalyzer create-analyzer --analyzer-name account-analyzer --type ACCOUNT`,
		},
	}

	table["aws/s3_account_level_public_access_blocks"] = []models.RemediationEntry{
		{
			Format:  FormatCLI,
			Summary: "Block public access for the whole account",
			Command: `aws s3control put-public-access-block --account-id {account_id} --public-access-block-configuration BlockPublicAcls=true,IgnorePublicAcls=true,BlockPublicPolicy=true,RestrictPublicBuckets=true`,
		},
	}

	table["azure/storage-account-public-traffic"] = []models.RemediationEntry{
		{
			Format:  FormatCLI,
			Summary: "Deny public network access to the storage account",
			Command: `az storage account update --name {resource} --default-action Deny`,
		},
		{
			Format:  FormatDoc,
			Summary: "Azure Storage network security documentation",
			URL:     "https://learn.microsoft.com/azure/storage/common/storage-network-security",
		},
	}

	table["azure/keyvault-purge-protection"] = []models.RemediationEntry{
		{
			Format:  FormatCLI,
			Summary: "Enable purge protection on the key vault",
			Command: `az keyvault update --name {resource} --enable-purge-protection true`,
		},
	}

	return table
}
