// Package cli provides the command line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/ask/internal/commands"
	"github.com/temirov/ask/internal/config"
	"github.com/temirov/ask/internal/output"
	"github.com/temirov/ask/internal/prompt"
	"github.com/temirov/ask/internal/services/clipboard"
	"github.com/temirov/ask/internal/services/llm"
	"github.com/temirov/ask/internal/tokenizer"
	"github.com/temirov/ask/internal/types"
	"github.com/temirov/ask/internal/utils"
)

const (
	promptFlagName           = "prompt"
	promptShorthand          = "p"
	filesFlagName            = "files"
	filesShorthand           = "f"
	fileSystemFlagName       = "filesystem"
	testFlagName             = "test"
	testShorthand            = "t"
	outputFlagName           = "output"
	outputShorthand          = "o"
	directoryFlagName        = "dir"
	configFlagName           = "config"
	providerFlagName         = "provider"
	modelFlagName            = "model"
	maxFileSizeFlagName      = "max-file-size"
	tokensFlagName           = "tokens"
	tokensModelFlagName      = "tokens-model"
	markdownFlagName         = "markdown"
	copyFlagName             = "copy"
	versionFlagName          = "version"
	initConfigFlagName       = "init-config"
	forceFlagName            = "force"
	defaultDirectoryPath     = "."
	versionTemplate          = "ask version: %s\n"
	configurationSavedFormat = "Configuration written to %s\n"

	rootUse              = "ask [prompt words...]"
	rootShortDescription = "ask a generative model about the current directory"
	rootLongDescription  = `ask sends a prompt to a generative model, optionally prefixed with a
listing of the directory tree (-fs) and the contents of its files (-f).
Use -t to print the assembled prompt without calling the model and -o to save the reply.`
	rootUsageExample = `  # Ask about the project with a three level tree and top level files
  ask -fs -f "what does this project do?"

  # Inspect the prompt that would be sent
  ask -t -f 2 summarize the code

  # Save the reply to a file
  ask -o answer.md -p "write release notes"`

	promptFlagDescription      = "text prompt for the model"
	filesFlagDescription       = "append file contents of the directory up to a depth (default 1 when given without a value)"
	fileSystemFlagDescription  = "append the directory tree up to a depth, also -fs (default 3 when given without a value)"
	testFlagDescription        = "print the assembled prompt instead of calling the model"
	outputFlagDescription      = "save the reply to this file"
	directoryFlagDescription   = "directory to gather context from"
	configFlagDescription      = "configuration file to use instead of ./.ask.yaml"
	providerFlagDescription    = "model provider: gemini or openai"
	modelFlagDescription       = "model name"
	maxFileSizeFlagDescription = "largest file in bytes whose contents are included"
	tokensFlagDescription      = "log the estimated prompt token count"
	tokensModelFlagDescription = "tokenizer model used for token estimation"
	markdownFlagDescription    = "render the reply as terminal markdown"
	copyFlagDescription        = "copy the reply to the clipboard"
	versionFlagDescription     = "display application version"
	initConfigFlagDescription  = "write a default configuration file (local or global) and exit"
	forceFlagDescription       = "overwrite an existing configuration file with --init-config"

	noPromptMessage             = "Error: No prompt provided. Use -p or provide a prompt as positional arguments."
	promptTokensMessage         = "prompt tokens"
	skippedEntriesMessage       = "entries skipped while gathering context"
	warningTokenCountMessage    = "Warning: failed to count prompt tokens"
	warningMarkdownMessage      = "Warning: markdown renderer unavailable, printing plain text"
	errorLoadConfigFormat       = "load configuration: %w"
	errorCreateClientFormat     = "create model client: %w"
	errorInitializeConfigFormat = "initialize configuration: %w"
	errorNegativeMaxSizeFormat  = "invalid --%s %d: must not be negative"
)

// applicationDependencies holds the collaborators the root command reaches outside the process with.
type applicationDependencies struct {
	logger              *zap.Logger
	newClient           func(ctx context.Context, settings llm.Settings) (llm.Client, error)
	newCopier           func() clipboard.Copier
	newMarkdownRenderer func() (output.MarkdownRenderer, error)
}

func defaultDependencies(logger *zap.Logger) applicationDependencies {
	return applicationDependencies{
		logger:    logger,
		newClient: llm.NewClient,
		newCopier: func() clipboard.Copier {
			return clipboard.NewService()
		},
		newMarkdownRenderer: output.NewMarkdownRenderer,
	}
}

// askOptions stores the parsed command line flags.
type askOptions struct {
	promptText      string
	filesDepth      int
	fileSystemDepth int
	testMode        bool
	outputPath      string
	directoryPath   string
	configPath      string
	provider        string
	model           string
	maxFileSize     int64
	tokens          bool
	tokensModel     string
	markdown        bool
	copy            bool
	showVersion     bool
	initTarget      string
	force           bool
}

// Execute runs the ask application with the process arguments.
func Execute(logger *zap.Logger) error {
	rootCommand := createRootCommand(defaultDependencies(logger))
	rootCommand.SetArgs(normalizeArguments(rootCommand.Flags(), os.Args[1:]))
	return rootCommand.ExecuteContext(context.Background())
}

// createRootCommand builds the root Cobra command. Callers must pass arguments through
// normalizeArguments before execution.
func createRootCommand(dependencies applicationDependencies) *cobra.Command {
	var options askOptions

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if options.showVersion {
				fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				return nil
			}
			if command.Flags().Changed(initConfigFlagName) {
				return runInitConfig(command, options)
			}
			return runAsk(command, arguments, options, dependencies)
		},
	}

	flagSet := rootCommand.Flags()
	flagSet.StringVarP(&options.promptText, promptFlagName, promptShorthand, "", promptFlagDescription)
	registerDepthFlag(flagSet, &options.filesDepth, filesFlagName, filesShorthand, types.DefaultFilesDepth, filesFlagDescription)
	registerDepthFlag(flagSet, &options.fileSystemDepth, fileSystemFlagName, "", types.DefaultFileSystemDepth, fileSystemFlagDescription)
	registerBooleanFlag(flagSet, &options.testMode, testFlagName, testShorthand, testFlagDescription)
	flagSet.StringVarP(&options.outputPath, outputFlagName, outputShorthand, "", outputFlagDescription)
	flagSet.StringVar(&options.directoryPath, directoryFlagName, defaultDirectoryPath, directoryFlagDescription)
	flagSet.StringVar(&options.configPath, configFlagName, "", configFlagDescription)
	flagSet.StringVar(&options.provider, providerFlagName, "", providerFlagDescription)
	flagSet.StringVar(&options.model, modelFlagName, "", modelFlagDescription)
	flagSet.Int64Var(&options.maxFileSize, maxFileSizeFlagName, 0, maxFileSizeFlagDescription)
	registerBooleanFlag(flagSet, &options.tokens, tokensFlagName, "", tokensFlagDescription)
	flagSet.StringVar(&options.tokensModel, tokensModelFlagName, "", tokensModelFlagDescription)
	registerBooleanFlag(flagSet, &options.markdown, markdownFlagName, "", markdownFlagDescription)
	registerBooleanFlag(flagSet, &options.copy, copyFlagName, "", copyFlagDescription)
	flagSet.BoolVar(&options.showVersion, versionFlagName, false, versionFlagDescription)
	registerChoiceFlag(flagSet, &options.initTarget, initConfigFlagName, []string{string(config.InitTargetLocal), string(config.InitTargetGlobal)}, initConfigFlagDescription)
	flagSet.BoolVar(&options.force, forceFlagName, false, forceFlagDescription)
	return rootCommand
}

func runInitConfig(command *cobra.Command, options askOptions) error {
	writtenPath, initError := config.InitializeConfiguration(config.InitOptions{
		Target: config.InitTarget(options.initTarget),
		Force:  options.force,
	})
	if initError != nil {
		return fmt.Errorf(errorInitializeConfigFormat, initError)
	}
	fmt.Fprintf(command.OutOrStdout(), configurationSavedFormat, writtenPath)
	return nil
}

// runAsk gathers context, assembles the prompt, and either prints it or sends it to the model.
func runAsk(command *cobra.Command, arguments []string, options askOptions, dependencies applicationDependencies) error {
	startTime := time.Now()
	logger := utils.LoggerOrNop(dependencies.logger)
	stdout := command.OutOrStdout()

	userPrompt, promptProvided := prompt.ResolveUserPrompt(options.promptText, arguments)
	if !promptProvided {
		fmt.Fprintln(stdout, noPromptMessage)
		return nil
	}

	applicationConfig, configError := config.LoadApplicationConfiguration(config.LoadOptions{ExplicitFilePath: options.configPath})
	if configError != nil {
		return fmt.Errorf(errorLoadConfigFormat, configError)
	}
	applicationConfig, overrideError := applyFlagOverrides(command, options, applicationConfig)
	if overrideError != nil {
		return overrideError
	}

	assembledPrompt := prompt.Assemble(gatherSections(options, applicationConfig, logger), userPrompt)

	if isEnabled(applicationConfig.Tokens.Enabled) {
		logPromptTokens(assembledPrompt, applicationConfig.Tokens.Model, logger)
	}

	sink := &output.Sink{Stdout: stdout, Logger: logger}
	if isEnabled(applicationConfig.Markdown) && dependencies.newMarkdownRenderer != nil {
		renderer, rendererError := dependencies.newMarkdownRenderer()
		if rendererError != nil {
			logger.Warn(warningMarkdownMessage, zap.Error(rendererError))
		} else {
			sink.Markdown = renderer
		}
	}
	if isEnabled(applicationConfig.Copy) && dependencies.newCopier != nil {
		sink.Copier = dependencies.newCopier()
	}

	if options.testMode {
		sink.EmitPrompt(assembledPrompt)
	} else {
		client, clientError := dependencies.newClient(command.Context(), llm.Settings{
			Provider: applicationConfig.ResolvedProvider(),
			Model:    applicationConfig.ResolvedModel(),
			APIKey:   applicationConfig.ResolveAPIKey(),
			BaseURL:  applicationConfig.BaseURL,
		})
		if clientError != nil {
			return fmt.Errorf(errorCreateClientFormat, clientError)
		}
		sink.EmitResponse(client.Generate(command.Context(), assembledPrompt), options.outputPath)
	}

	logger.Info(utils.FormatElapsedSeconds(time.Since(startTime).Seconds()))
	return nil
}

// applyFlagOverrides layers explicitly given flags over the loaded configuration.
func applyFlagOverrides(command *cobra.Command, options askOptions, applicationConfig config.ApplicationConfiguration) (config.ApplicationConfiguration, error) {
	flagSet := command.Flags()
	var overrides config.ApplicationConfiguration
	overrides.Provider = options.provider
	overrides.Model = options.model
	overrides.Tokens.Model = options.tokensModel
	if flagSet.Changed(maxFileSizeFlagName) {
		if options.maxFileSize < 0 {
			return applicationConfig, fmt.Errorf(errorNegativeMaxSizeFormat, maxFileSizeFlagName, options.maxFileSize)
		}
		maxFileSize := options.maxFileSize
		overrides.MaxFileSize = &maxFileSize
	}
	if flagSet.Changed(tokensFlagName) {
		tokens := options.tokens
		overrides.Tokens.Enabled = &tokens
	}
	if flagSet.Changed(markdownFlagName) {
		markdown := options.markdown
		overrides.Markdown = &markdown
	}
	if flagSet.Changed(copyFlagName) {
		copyReply := options.copy
		overrides.Copy = &copyReply
	}
	return applicationConfig.Merge(overrides), nil
}

// gatherSections walks the traversal root for every section whose depth is non-zero.
func gatherSections(options askOptions, applicationConfig config.ApplicationConfiguration, logger *zap.Logger) prompt.Sections {
	var sections prompt.Sections
	if options.fileSystemDepth != 0 {
		walker := &commands.TreeWalker{MaxDepth: options.fileSystemDepth, Logger: logger}
		treeResult := walker.Walk(options.directoryPath)
		logSkippedEntries(treeResult.Skipped, logger)
		sections.IncludeFileSystem = true
		sections.FileSystem = treeResult.Listing
	}
	if options.filesDepth != 0 {
		extractor := commands.NewContentExtractor(options.filesDepth, logger)
		extractor.MaxFileSizeBytes = applicationConfig.ResolvedMaxFileSize()
		contentResult := extractor.Extract(options.directoryPath)
		logSkippedEntries(contentResult.Skipped, logger)
		sections.IncludeFiles = true
		sections.Files = contentResult.Content
	}
	return sections
}

func logSkippedEntries(skipped []types.SkippedEntry, logger *zap.Logger) {
	if len(skipped) == 0 {
		return
	}
	paths := make([]string, 0, len(skipped))
	for _, entry := range skipped {
		paths = append(paths, entry.String())
	}
	logger.Debug(skippedEntriesMessage, zap.Int("count", len(skipped)), zap.Strings("entries", paths))
}

func logPromptTokens(assembledPrompt string, tokenizerModel string, logger *zap.Logger) {
	counter, encodingName, counterError := tokenizer.NewCounter(tokenizer.Config{Model: tokenizerModel})
	if counterError != nil {
		logger.Warn(warningTokenCountMessage, zap.Error(counterError))
		return
	}
	countResult, countError := tokenizer.CountText(counter, assembledPrompt)
	if countError != nil {
		logger.Warn(warningTokenCountMessage, zap.Error(countError))
		return
	}
	if !countResult.Counted {
		return
	}
	logger.Info(promptTokensMessage, zap.Int("tokens", countResult.Tokens), zap.String("encoding", encodingName))
}

func isEnabled(value *bool) bool {
	return value != nil && *value
}
